package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/midgarden/userd/pkg/jwtx"
	"github.com/midgarden/userd/pkg/slogx"
	"github.com/midgarden/userd/pkg/userapi"
)

// AccountChecker re-fetches account state per request so that deactivating an
// account takes effect immediately instead of at token expiry. Implementations
// return nil for an active account, userapi.ErrAccountDeactivated for a
// suspended one, and userapi.ErrInvalidToken when the account no longer exists.
type AccountChecker interface {
	CheckAccount(ctx context.Context, userID string) error
}

// Authn extracts a bearer token from the Authorization header and attaches
// the verified identity to the request context.
//
// With required=false an absent credential is not an error: the request
// proceeds anonymously (no identity in context). A token that IS presented is
// always verified, and always rejected on failure, regardless of required.
//
// checker may be nil, in which case token claims are trusted for the lifetime
// of the request.
func Authn(v jwtx.Verifier, required bool, checker AccountChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := bearerToken(r)
			if raw == "" {
				if required {
					userapi.ErrAuthenticationRequired.WriteError(w)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("bearer token rejected", "err", err)
				userapi.ErrInvalidToken.WriteError(w)
				return
			}

			if checker != nil {
				if err := checker.CheckAccount(ctx, claims.Subject); err != nil {
					var apiErr *userapi.Error
					if errors.As(err, &apiErr) {
						apiErr.WriteError(w)
						return
					}
					log.Error("account check failed", "user_id", claims.Subject, "err", err)
					userapi.ErrServerError.WriteError(w)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(contextWithIdentity(ctx, claims)))
		})
	}
}

func contextWithIdentity(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	return ctx
}

// bearerToken pulls the token out of "Authorization: Bearer <token>".
// Any other scheme counts as no credential presented.
func bearerToken(r *http.Request) string {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
}
