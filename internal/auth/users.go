package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rogerio-castellano/expiry-tracker/internal/logger"
	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/repo"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCannotDeleteSelf   = errors.New("cannot delete your own account")
	ErrForbidden          = errors.New("forbidden")
)

// hashCost is lowered by tests.
var hashCost = bcrypt.DefaultCost

// UserInput is the editable part of a user. Password may be empty on update
// to keep the current one.
type UserInput struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password"`
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Role     models.Role `json:"role" validate:"required,oneof=admin employee"`
}

func (in UserInput) normalized() UserInput {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

// Users manages accounts stored in the users collection.
type Users struct {
	mu    sync.Mutex
	store *repo.Store
	now   func() time.Time
	log   *logger.Logger
}

func NewUsers(store *repo.Store, now func() time.Time, log *logger.Logger) *Users {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Users{store: store, now: now, log: log}
}

func (u *Users) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	users, err := u.store.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, user := range users {
		if user.Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return models.User{}, ErrInvalidCredentials
		}
		return user, nil
	}
	return models.User{}, ErrInvalidCredentials
}

func (u *Users) Get(ctx context.Context, id string) (models.User, error) {
	users, err := u.store.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	if i := indexOfUser(users, id); i >= 0 {
		return users[i], nil
	}
	return models.User{}, ErrUserNotFound
}

func (u *Users) List(ctx context.Context, actor models.Actor) ([]models.User, error) {
	if !actor.IsAdmin {
		return nil, ErrForbidden
	}
	return u.store.Users(ctx)
}

func (u *Users) Create(ctx context.Context, actor models.Actor, in UserInput) (models.User, error) {
	if !actor.IsAdmin {
		return models.User{}, ErrForbidden
	}
	in = in.normalized()
	verr := validation.Struct(in)
	if in.Password == "" {
		verr.Add("password", "This field is required")
	}
	if err := verr.OrNil(); err != nil {
		return models.User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.store.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	if usernameTaken(users, in.Username, "") {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		Name:         in.Name,
		Email:        in.Email,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.store.SaveUsers(ctx, append(users, user)); err != nil {
		u.log.Error(ctx, "saving users failed", err)
		return models.User{}, err
	}

	u.log.Zerolog(ctx).Info().Str("user_id", user.ID).Str("by", actor.UserID).Msg("user created")
	return user, nil
}

func (u *Users) Update(ctx context.Context, actor models.Actor, id string, in UserInput) (models.User, error) {
	if !actor.IsAdmin {
		return models.User{}, ErrForbidden
	}
	in = in.normalized()
	if err := validation.Struct(in).OrNil(); err != nil {
		return models.User{}, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.store.Users(ctx)
	if err != nil {
		return models.User{}, err
	}
	i := indexOfUser(users, id)
	if i < 0 {
		return models.User{}, ErrUserNotFound
	}
	if usernameTaken(users, in.Username, id) {
		return models.User{}, ErrUsernameTaken
	}

	user := users[i]
	user.Username = in.Username
	user.Name = in.Name
	user.Email = in.Email
	user.Role = in.Role
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return models.User{}, err
		}
		user.PasswordHash = hash
	}
	users[i] = user

	if err := u.store.SaveUsers(ctx, users); err != nil {
		u.log.Error(ctx, "saving users failed", err)
		return models.User{}, err
	}
	return user, nil
}

func (u *Users) Delete(ctx context.Context, actor models.Actor, id string) error {
	if !actor.IsAdmin {
		return ErrForbidden
	}
	if actor.UserID == id {
		return ErrCannotDeleteSelf
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	users, err := u.store.Users(ctx)
	if err != nil {
		return err
	}
	i := indexOfUser(users, id)
	if i < 0 {
		return ErrUserNotFound
	}

	remaining := append(users[:i:i], users[i+1:]...)
	if err := u.store.SaveUsers(ctx, remaining); err != nil {
		u.log.Error(ctx, "saving users failed", err)
		return err
	}
	return nil
}

// SeedUsers writes the default administrator and employee accounts when the
// users collection has never been written.
func SeedUsers(ctx context.Context, store *repo.Store, now time.Time) error {
	exists, err := store.HasKey(ctx, repo.KeyUsers)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	defaults := []struct {
		id, username, password, name, email string
		role                                models.Role
	}{
		{"1", "admin", "admin123", "Administrador", "admin@example.com", models.RoleAdmin},
		{"2", "empleado", "empleado123", "Empleado Demo", "empleado@example.com", models.RoleEmployee},
	}

	users := make([]models.User, 0, len(defaults))
	for _, d := range defaults {
		hash, err := hashPassword(d.password)
		if err != nil {
			return err
		}
		users = append(users, models.User{
			ID:           d.id,
			Username:     d.username,
			PasswordHash: hash,
			Role:         d.role,
			Name:         d.name,
			Email:        d.email,
			CreatedAt:    now.UTC(),
		})
	}
	if err := store.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("seeding users: %w", err)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

func usernameTaken(users []models.User, username, exceptID string) bool {
	for _, u := range users {
		if u.Username == username && u.ID != exceptID {
			return true
		}
	}
	return false
}

func indexOfUser(users []models.User, id string) int {
	for i, u := range users {
		if u.ID == id {
			return i
		}
	}
	return -1
}
