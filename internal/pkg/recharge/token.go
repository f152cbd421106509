package recharge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/app/repository"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
)

// ErrNoToken is returned before the first successful login.
var ErrNoToken = errors.New("no stored hotsocket token")

// TokenProvider is the injected view of the singleton auth token. The
// pipeline never touches the token table directly.
type TokenProvider interface {
	// Current returns the stored token, ErrNoToken when none exists yet.
	Current(ctx context.Context) (*models.StoreToken, error)
	// Refresh logs in upstream and overwrites the stored token. The store
	// is left untouched when the login is rejected.
	Refresh(ctx context.Context) (*models.StoreToken, error)
}

type authManager struct {
	api      API
	tokens   repository.TokenRepository
	codes    hotsocket.Codes
	duration time.Duration
	now      func() time.Time
}

// NewAuthManager builds the TokenProvider backed by the token repository.
func NewAuthManager(api API, tokens repository.TokenRepository, codes hotsocket.Codes, duration time.Duration) TokenProvider {
	return &authManager{
		api:      api,
		tokens:   tokens,
		codes:    codes,
		duration: duration,
		now:      time.Now,
	}
}

func (m *authManager) Current(ctx context.Context) (*models.StoreToken, error) {
	token, err := m.tokens.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, err
	}
	if token.Expired(m.now()) {
		log.Debugf("[Auth] Stored token expired at %s, still returning it; upstream decides", token.ExpiresAt)
	}
	return token, nil
}

func (m *authManager) Refresh(ctx context.Context) (*models.StoreToken, error) {
	res, err := m.api.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("hotsocket login: %w", err)
	}

	if res.Status != m.codes.Success {
		return nil, fmt.Errorf("hotsocket login rejected with status %s: %s", res.Status, res.Message)
	}

	issuedAt := m.now()
	expiresAt := issuedAt.Add(m.duration)
	if err := m.tokens.Upsert(res.Token, issuedAt, expiresAt); err != nil {
		return nil, fmt.Errorf("store hotsocket token: %w", err)
	}

	log.Infof("[Auth] Refreshed hotsocket token, expires at %s", expiresAt.Format(time.RFC3339))
	return &models.StoreToken{
		ID:        models.StoreTokenID,
		Token:     res.Token,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}
