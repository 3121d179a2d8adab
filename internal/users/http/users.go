package http

import (
	"net/http"
	"strconv"

	"github.com/midgarden/userd/internal/users/service"
	"github.com/midgarden/userd/pkg/httpx"
	"github.com/midgarden/userd/pkg/userapi"
)

// UsersHandler serves the admin-facing account endpoints.
type UsersHandler struct {
	AccountService *service.AccountService
}

// HandleList godoc
//
//	@Summary		List accounts
//	@Description	Returns one page of accounts with pagination metadata. Supports
//	@Description	filtering by role and case-insensitive search over username and email.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			page	query		int		false	"Page number (1-based)"
//	@Param			limit	query		int		false	"Page size (default 20, max 100)"
//	@Param			role	query		string	false	"Filter by role (user, moderator, admin)"
//	@Param			search	query		string	false	"Substring match on username or email"
//	@Success		200		{object}	userapi.ListUsersResponse	"users, pagination"
//	@Failure		400		{object}	userapi.Error				"Unknown role filter or bad paging"
//	@Failure		401		{object}	userapi.Error				"Invalid or missing access token"
//	@Failure		403		{object}	userapi.Error				"Caller is not an admin"
//	@Failure		500		{object}	userapi.Error				"Internal server error"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, ok := intParam(w, q.Get("page"), "page")
	if !ok {
		return
	}
	limit, ok := intParam(w, q.Get("limit"), "limit")
	if !ok {
		return
	}

	users, pagination, err := h.AccountService.List(r.Context(), service.ListQuery{
		Page:   page,
		Limit:  limit,
		Role:   q.Get("role"),
		Search: q.Get("search"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]userapi.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userapi.ListUsersResponse{
		Users:      out,
		Pagination: pagination,
	})
}

// HandleGet godoc
//
//	@Summary		Get an account by id
//	@Description	Returns one account. Callers may fetch their own record; any other
//	@Description	id requires the admin role.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string			true	"Account id"
//	@Success		200	{object}	userapi.User	"The sanitized account"
//	@Failure		401	{object}	userapi.Error	"Invalid or missing access token"
//	@Failure		403	{object}	userapi.Error	"Not the caller's own account and not an admin"
//	@Failure		404	{object}	userapi.Error	"No such account"
//	@Failure		500	{object}	userapi.Error	"Internal server error"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.AccountService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, user.Sanitized())
}

// HandleDelete godoc
//
//	@Summary		Delete an account
//	@Description	Permanently removes an account. The username and email become
//	@Description	available for reuse immediately.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Account id"
//	@Success		204	"Account deleted"
//	@Failure		401	{object}	userapi.Error	"Invalid or missing access token"
//	@Failure		403	{object}	userapi.Error	"Caller is not an admin"
//	@Failure		404	{object}	userapi.Error	"No such account"
//	@Failure		500	{object}	userapi.Error	"Internal server error"
//	@Router			/v1/users/{id} [delete].
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AccountService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// intParam parses an optional non-negative integer query parameter. Empty
// means zero, which the service replaces with its default.
func intParam(w http.ResponseWriter, raw, name string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		userapi.ErrValidation.WithMessage("%s must be a non-negative integer", name).WriteError(w)
		return 0, false
	}
	return n, true
}
