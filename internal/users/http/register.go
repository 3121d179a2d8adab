package http

import (
	"net/http"

	"github.com/midgarden/userd/internal/users/service"
	"github.com/midgarden/userd/pkg/httpx"
	"github.com/midgarden/userd/pkg/userapi"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Register a new account
//	@Description	Creates an account from username, email and password. The optional
//	@Description	role field must name a known role; omitting it yields "user".
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			body	body		userapi.RegisterRequest	true	"Registration payload"
//	@Success		201		{object}	userapi.User			"The sanitized account"
//	@Failure		400		{object}	userapi.Error			"Validation failure"
//	@Failure		409		{object}	userapi.Error			"Username or email already taken"
//	@Failure		500		{object}	userapi.Error			"Internal server error"
//	@Router			/v1/users/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req userapi.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.AccountService.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, user.Sanitized())
}
