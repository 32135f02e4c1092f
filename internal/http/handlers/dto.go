package handlers

import (
	"time"

	"github.com/rogerio-castellano/expiry-tracker/internal/models"
	"github.com/rogerio-castellano/expiry-tracker/internal/validation"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type MeResponse struct {
	User  UserResponse `json:"user"`
	Actor models.Actor `json:"actor"`
}

type ProductRequest struct {
	Name    string `json:"name"`
	Barcode string `json:"barcode"`
}

// ProductUpdateRequest edits a product. When Changes is omitted the summary
// is derived from the old and new values.
type ProductUpdateRequest struct {
	Name    string  `json:"name"`
	Barcode string  `json:"barcode"`
	Changes *string `json:"changes,omitempty"`
}

type BatchRequest struct {
	ProductID      string      `json:"productId"`
	ExpirationDate models.Date `json:"expirationDate" swaggertype:"string" example:"2026-03-15"`
	Quantity       int         `json:"quantity"`
}

type BatchUpdateRequest struct {
	ExpirationDate models.Date `json:"expirationDate" swaggertype:"string" example:"2026-03-15"`
	Quantity       int         `json:"quantity"`
	Changes        *string     `json:"changes,omitempty"`
}

// UserResponse is a user without its password hash.
type UserResponse struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type ImportProductsResult struct {
	ImportedProductsCount int                     `json:"imported"`
	Errors                []validation.FieldError `json:"errors"`
}
