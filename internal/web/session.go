package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookie = "billed_session"

// Session is the locally held identity of the current employee. The
// pipelines read it and never mutate it.
type Session struct {
	Type  string
	Email string
}

// SessionManager signs and reads the portal's session cookie
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a manager signing cookies with the given secret
func NewSessionManager(secret []byte, ttl time.Duration) *SessionManager {
	return &SessionManager{secret: secret, ttl: ttl}
}

// Issue writes a signed session cookie for the given identity
func (m *SessionManager) Issue(w http.ResponseWriter, sess Session) error {
	claims := jwt.MapClaims{
		"type":  sess.Type,
		"email": sess.Email,
		"exp":   time.Now().Add(m.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("signing session token: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})
	return nil
}

// Read parses the session cookie of a request
func (m *SessionManager) Read(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return Session{}, fmt.Errorf("reading session cookie: %w", err)
	}

	token, err := jwt.Parse(cookie.Value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("parsing session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Session{}, fmt.Errorf("invalid session token")
	}

	sessType, _ := claims["type"].(string)
	email, _ := claims["email"].(string)
	if email == "" {
		return Session{}, fmt.Errorf("session token missing email")
	}

	return Session{Type: sessType, Email: email}, nil
}
