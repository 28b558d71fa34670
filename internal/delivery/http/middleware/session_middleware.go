package middleware

import (
	"context"
	"net/http"

	"clinic-inventory/internal/domain/entity"
	"clinic-inventory/internal/domain/repository"
	"clinic-inventory/internal/session"

	"gorm.io/gorm"
)

type contextKey string

const (
	UserKey      contextKey = "current_user"
	SessionIDKey contextKey = "session_id"
	ClaimsKey    contextKey = "session_claims"
)

// SessionMiddleware gates protected routes on a valid session cookie. Any
// failure sends the browser back to the login page instead of erroring.
type SessionMiddleware struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	sessions *session.Service
}

func NewSessionMiddleware(db *gorm.DB, userRepo repository.UserRepository, sessions *session.Service) *SessionMiddleware {
	return &SessionMiddleware{
		db:       db,
		userRepo: userRepo,
		sessions: sessions,
	}
}

func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		claims, err := m.sessions.Validate(r.Context(), cookie.Value)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		user, err := m.userRepo.FindByID(m.db.WithContext(r.Context()), claims.UserID)
		if err != nil || user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		ctx = context.WithValue(ctx, SessionIDKey, claims.SessionID)
		ctx = context.WithValue(ctx, ClaimsKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserFromContext extracts the authenticated user from the context.
func GetUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	return user, ok
}

// GetSessionIDFromContext extracts the session ID from the context.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok
}

// GetClaimsFromContext extracts the full session claims from the context.
func GetClaimsFromContext(ctx context.Context) (*session.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*session.Claims)
	return claims, ok
}
