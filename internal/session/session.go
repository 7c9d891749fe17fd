package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"salimco/pos/internal/cart"
	"salimco/pos/internal/domain"
)

const CookieName = "salimco_session"

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Data struct {
	Username string     `json:"username,omitempty"`
	Role     string     `json:"role,omitempty"`
	Cart     *cart.Cart `json:"cart,omitempty"`
	Flashes  []Flash    `json:"flashes,omitempty"`
}

type Session struct {
	ID        string
	Data      Data
	destroyed bool
	fresh     bool
}

func (d *Data) empty() bool {
	return d.Username == "" && d.Cart == nil && len(d.Flashes) == 0
}

func (s *Session) Actor() (domain.Actor, bool) {
	if s.Data.Username == "" {
		return domain.Actor{}, false
	}
	return domain.Actor{Username: s.Data.Username, Role: s.Data.Role}, true
}

func (s *Session) SignIn(actor domain.Actor) {
	s.Data = Data{Username: actor.Username, Role: actor.Role, Flashes: s.Data.Flashes}
}

func (s *Session) AddFlash(category string, message string) {
	s.Data.Flashes = append(s.Data.Flashes, Flash{Category: category, Message: message})
}

func (s *Session) PopFlashes() []Flash {
	flashes := s.Data.Flashes
	s.Data.Flashes = nil
	return flashes
}

// Manager ties the server-side session store to a signed cookie that only
// carries the session id.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
}

type sessionClaims struct {
	jwtlib.RegisteredClaims
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure}
}

// Load resolves the request's session, starting a new one when the cookie is
// missing, invalid or expired. The cookie is refreshed on every load.
func (m *Manager) Load(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess := &Session{}
	if cookie, err := r.Cookie(CookieName); err == nil {
		if id, err := m.parseToken(cookie.Value); err == nil {
			data, ok, err := m.store.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			if ok {
				sess.ID = id
				sess.Data = *data
			}
		}
	}
	if sess.ID == "" {
		sess.ID = uuid.NewString()
		sess.fresh = true
	}

	token, err := m.sign(sess.ID, time.Now().Add(m.ttl))
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, m.cookie(token, int(m.ttl.Seconds())))
	return sess, nil
}

// Save persists the session. A new session that never received any data is
// not stored, so anonymous visitors leave nothing behind.
func (m *Manager) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.destroyed || (sess.fresh && sess.Data.empty()) {
		return nil
	}
	return m.store.Set(ctx, sess.ID, &sess.Data, m.ttl)
}

func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	sess.destroyed = true
	http.SetCookie(w, m.cookie("", -1))
	return m.store.Delete(ctx, sess.ID)
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *Manager) sign(id string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwtlib.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "salimco-pos",
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parseToken(tokenStr string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		return m.secret, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired session token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("invalid session subject")
	}
	return sub, nil
}
