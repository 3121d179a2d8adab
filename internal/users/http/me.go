package http

import (
	"net/http"

	"github.com/midgarden/userd/internal/users/service"
	"github.com/midgarden/userd/pkg/httpx"
	"github.com/midgarden/userd/pkg/userapi"
)

// MeHandler serves the authenticated account's self-service endpoints.
type MeHandler struct {
	AccountService *service.AccountService
}

// HandleGet godoc
//
//	@Summary		Get own profile
//	@Description	Returns the authenticated account.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	userapi.User	"The sanitized account"
//	@Failure		401	{object}	userapi.Error	"Invalid or missing access token"
//	@Failure		500	{object}	userapi.Error	"Internal server error"
//	@Router			/v1/users/me [get].
func (h *MeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		userapi.ErrInvalidToken.WriteError(w)
		return
	}

	user, err := h.AccountService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, user.Sanitized())
}

// HandleUpdate godoc
//
//	@Summary		Update own profile
//	@Description	Patches username and/or email. Fields omitted from the body are
//	@Description	left untouched; fields outside the two are ignored.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		userapi.UpdateProfileRequest	true	"Profile patch"
//	@Success		200		{object}	userapi.User					"The updated account"
//	@Failure		400		{object}	userapi.Error					"Validation failure"
//	@Failure		401		{object}	userapi.Error					"Invalid or missing access token"
//	@Failure		409		{object}	userapi.Error					"Username or email already taken"
//	@Failure		500		{object}	userapi.Error					"Internal server error"
//	@Router			/v1/users/me [patch].
func (h *MeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		userapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req userapi.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Username == nil && req.Email == nil {
		userapi.ErrValidation.WithMessage("nothing to update").WriteError(w)
		return
	}

	user, err := h.AccountService.UpdateProfile(r.Context(), userID, service.ProfilePatch{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, user.Sanitized())
}

// HandleChangePassword godoc
//
//	@Summary		Change own password
//	@Description	Re-verifies the current password and replaces it with the new one.
//	@Description	Existing tokens remain valid until they expire.
//	@Tags			Users
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			body	body	userapi.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	userapi.Error	"Wrong current password or weak new password"
//	@Failure		401		{object}	userapi.Error	"Invalid or missing access token"
//	@Failure		500		{object}	userapi.Error	"Internal server error"
//	@Router			/v1/users/me/change-password [post].
func (h *MeHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFromContext(r.Context())
	if userID == "" {
		userapi.ErrInvalidToken.WriteError(w)
		return
	}

	var req userapi.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		userapi.ErrValidation.WithMessage("current_password and new_password are required").WriteError(w)
		return
	}

	if err := h.AccountService.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
