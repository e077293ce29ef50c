package auth

import (
	"errors"
	"net/http"

	"github.com/cryptostarter/cryptostarter/internal/httputil"
	"github.com/cryptostarter/cryptostarter/internal/logging"
	"github.com/cryptostarter/cryptostarter/internal/user"
)

// LoginPath is where protected pages send anonymous visitors
const LoginPath = "/login"

// Middleware resolves the session cookie into the current user
type Middleware struct {
	service *Service
	cookies *CookieCodec
}

func NewMiddleware(service *Service, cookies *CookieCodec) *Middleware {
	return &Middleware{service: service, cookies: cookies}
}

// LoadSession puts the signed-in user, if any, into the request context.
// Requests without a valid session pass through unchanged.
func (m *Middleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.cookies.SessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		u, err := m.service.CurrentUser(r.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrNoSession) {
				logging.GetLoggerFromContext(r.Context()).Error("failed to load session", "error", err.Error())
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(user.NewContext(r.Context(), u)))
	})
}

// RequireAPI answers {"success":false,"message":"Not logged in"} when no user is in the context
func (m *Middleware) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := user.FromContext(r.Context()); !ok {
			httputil.RespondFailure(w, httputil.MessageNotLoggedIn)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePage redirects anonymous visitors to the login page
func (m *Middleware) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := user.FromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
