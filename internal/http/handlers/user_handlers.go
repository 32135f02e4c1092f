package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rogerio-castellano/expiry-tracker/internal/auth"
)

// GetUsersHandler godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 403 {string} string "Forbidden"
// @Router /users [get]
func GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	users, err := userService.List(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	respond(w, r, http.StatusOK, resp)
}

// CreateUserHandler godoc
// @Summary Create user with role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body auth.UserInput true "User to create"
// @Success 201 {object} UserResponse
// @Failure 400 {array} validation.FieldError
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Router /users [post]
func CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req auth.UserInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	created, err := userService.Create(r.Context(), actor, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, toUserResponse(created))
}

// UpdateUserHandler godoc
// @Summary Update a user
// @Description An empty password keeps the current one
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body auth.UserInput true "New values"
// @Success 200 {object} UserResponse
// @Failure 400 {array} validation.FieldError
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Username taken"
// @Router /users/{id} [put]
func UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var req auth.UserInput
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	updated, err := userService.Update(r.Context(), actor, chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, toUserResponse(updated))
}

// DeleteUserHandler godoc
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "Deleted successfully"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Cannot delete yourself"
// @Router /users/{id} [delete]
func DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := userService.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
