package handlers

import (
	"net/http"
)

// LoginHandler godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 429 {string} string "Too many requests"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	user, err := userService.Authenticate(r.Context(), credentials.Username, credentials.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token, err := tokens.GenerateToken(user)
	if err != nil {
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	appLogger.Zerolog(r.Context()).Info().Str("user_id", user.ID).Msg("user logged in")
	respond(w, r, http.StatusOK, LoginResult{Token: token, User: toUserResponse(user)})
}

// MeHandler godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "User no longer exists"
// @Router /me [get]
func MeHandler(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	user, err := userService.Get(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, MeResponse{User: toUserResponse(user), Actor: actor})
}
