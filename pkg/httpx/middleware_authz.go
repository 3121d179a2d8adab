package httpx

import (
	"net/http"

	"github.com/midgarden/userd/pkg/userapi"
)

// RequireRole enforces that the authenticated identity holds one of the
// allowed roles. An empty role list accepts any authenticated identity.
// Must run after Authn; a request with no identity is rejected as
// unauthenticated, not forbidden.
func RequireRole(allowed ...string) Middleware {
	want := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := identityRole(r)
			if !ok {
				userapi.ErrAuthenticationRequired.WriteError(w)
				return
			}

			if len(want) > 0 {
				if _, ok := want[role]; !ok {
					userapi.ErrInsufficientPermissions.WriteError(w)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrRole is the ownership variant for resource-scoped routes: the
// caller may act when the path parameter equals their own subject id, or when
// they hold one of the elevated roles.
func RequireSelfOrRole(pathParam string, elevated ...string) Middleware {
	want := make(map[string]struct{}, len(elevated))
	for _, role := range elevated {
		want[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := identityRole(r)
			if !ok {
				userapi.ErrAuthenticationRequired.WriteError(w)
				return
			}

			if UserIDFromContext(r.Context()) == r.PathValue(pathParam) {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := want[role]; ok {
				next.ServeHTTP(w, r)
				return
			}

			userapi.ErrInsufficientPermissions.WriteError(w)
		})
	}
}

// identityRole reports whether the request carries an authenticated identity
// and, if so, its role.
func identityRole(r *http.Request) (string, bool) {
	if UserIDFromContext(r.Context()) == "" {
		return "", false
	}
	return RoleFromContext(r.Context()), true
}
