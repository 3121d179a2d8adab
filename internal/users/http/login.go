package http

import (
	"net/http"

	"github.com/midgarden/userd/internal/users/service"
	"github.com/midgarden/userd/pkg/httpx"
	"github.com/midgarden/userd/pkg/userapi"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP godoc
//
//	@Summary		Authenticate and issue an access token
//	@Description	Verifies email and password and returns a Bearer JWT plus the
//	@Description	sanitized account. Unknown email and wrong password are not
//	@Description	distinguishable from the response.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		userapi.LoginRequest	true	"Credentials"
//	@Success		200		{object}	userapi.LoginResponse	"token, token_type, expires_in, user"
//	@Failure		401		{object}	userapi.Error			"Invalid credentials"
//	@Failure		403		{object}	userapi.Error			"Account deactivated"
//	@Failure		500		{object}	userapi.Error			"Internal server error"
//	@Router			/v1/users/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req userapi.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		userapi.ErrValidation.WithMessage("email and password are required").WriteError(w)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userapi.LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(h.AuthService.TokenTTL.Seconds()),
		User:      user.Sanitized(),
	})
}
