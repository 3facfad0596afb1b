package flash

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fyyur/internal/logger"
)

type sessionKey struct{}

// Manager ties a Store to the session cookie.
type Manager struct {
	Store      Store
	CookieName string
	TTL        time.Duration
	Logger     *logger.Logger
}

func NewManager(store Store, cookieName string, ttl time.Duration, log *logger.Logger) *Manager {
	return &Manager{Store: store, CookieName: cookieName, TTL: ttl, Logger: log}
}

// Middleware makes sure every request carries a session id, issuing a new
// cookie when the client has none.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if c, err := r.Cookie(m.CookieName); err == nil {
			if _, err := uuid.Parse(c.Value); err == nil {
				sessionID = c.Value
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     m.CookieName,
				Value:    sessionID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the id set by Middleware, or "".
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// Add queues a message for the next rendered page. Failures are logged;
// a lost flash never fails the request.
func (m *Manager) Add(ctx context.Context, category, text string) {
	id := SessionID(ctx)
	if id == "" {
		m.Logger.Warn("FLASH", "No session for flash message: "+text)
		return
	}
	if err := m.Store.Push(ctx, id, Message{Category: category, Text: text}); err != nil {
		m.Logger.Error("FLASH", fmt.Sprintf("Failed to store flash message: %v", err))
		return
	}
	m.Logger.Debug("FLASH", fmt.Sprintf("Queued %s message for session %s", category, id))
}

func (m *Manager) Success(ctx context.Context, text string) {
	m.Add(ctx, CategorySuccess, text)
}

func (m *Manager) Error(ctx context.Context, text string) {
	m.Add(ctx, CategoryError, text)
}

// Take pops the session's pending messages.
func (m *Manager) Take(ctx context.Context) []Message {
	id := SessionID(ctx)
	if id == "" {
		return nil
	}
	messages, err := m.Store.Pop(ctx, id)
	if err != nil {
		m.Logger.Error("FLASH", fmt.Sprintf("Failed to read flash messages: %v", err))
		return nil
	}
	return messages
}
