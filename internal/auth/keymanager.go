// Package auth issues and validates the access and refresh tokens of vault
// sessions. Signing secrets are owned by a KeyManager and rotated on a timer.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

// secretBytes random bytes give a 64 character hex secret.
const secretBytes = 32

// Settings configures a KeyManager. Zero durations take the defaults.
type Settings struct {
	AccessRotation  time.Duration
	RefreshRotation time.Duration
	AccessTTL       time.Duration
	RefreshTTL      time.Duration
}

var DefaultSettings = Settings{
	AccessRotation:  24 * time.Hour,
	RefreshRotation: 7 * 24 * time.Hour,
	AccessTTL:       15 * time.Minute,
	RefreshTTL:      30 * 24 * time.Hour,
}

func (s Settings) withDefaults() Settings {
	if s.AccessRotation <= 0 {
		s.AccessRotation = DefaultSettings.AccessRotation
	}
	if s.RefreshRotation <= 0 {
		s.RefreshRotation = DefaultSettings.RefreshRotation
	}
	if s.AccessTTL <= 0 {
		s.AccessTTL = DefaultSettings.AccessTTL
	}
	if s.RefreshTTL <= 0 {
		s.RefreshTTL = DefaultSettings.RefreshTTL
	}
	return s
}

type signingKey struct {
	secret    []byte
	createdAt time.Time
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// KeyManager holds the current access and refresh signing secrets. It is
// safe for concurrent use; rotation replaces a secret under the write lock,
// after which tokens signed with the old secret no longer validate.
type KeyManager struct {
	mu       sync.RWMutex
	access   signingKey
	refresh  signingKey
	settings Settings
	now      func() time.Time
	log      logging.Logger
}

// NewKeyManager generates fresh secrets. A nil log discards rotation logs.
func NewKeyManager(settings Settings, log logging.Logger) (*KeyManager, error) {
	if log == nil {
		log = logging.Nop()
	}
	km := &KeyManager{
		settings: settings.withDefaults(),
		now:      time.Now,
		log:      log,
	}
	if err := km.RotateAccess(); err != nil {
		return nil, err
	}
	if err := km.RotateRefresh(); err != nil {
		return nil, err
	}
	return km, nil
}

func newSigningKey(now time.Time) (signingKey, error) {
	s, err := common.MakeRandHexString(secretBytes)
	if err != nil {
		return signingKey{}, fmt.Errorf("generate signing secret: %w", err)
	}
	return signingKey{secret: []byte(s), createdAt: now}, nil
}

func (km *KeyManager) RotateAccess() error {
	k, err := newSigningKey(km.now())
	if err != nil {
		return err
	}
	km.mu.Lock()
	common.WipeByteArray(km.access.secret)
	km.access = k
	km.mu.Unlock()
	return nil
}

func (km *KeyManager) RotateRefresh() error {
	k, err := newSigningKey(km.now())
	if err != nil {
		return err
	}
	km.mu.Lock()
	common.WipeByteArray(km.refresh.secret)
	km.refresh = k
	km.mu.Unlock()
	return nil
}

// Run rotates both secrets on their configured intervals until ctx is done.
func (km *KeyManager) Run(ctx context.Context) {
	accessTick := time.NewTicker(km.settings.AccessRotation)
	defer accessTick.Stop()
	refreshTick := time.NewTicker(km.settings.RefreshRotation)
	defer refreshTick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-accessTick.C:
			if err := km.RotateAccess(); err != nil {
				km.log.Error(ctx, "access key rotation failed", "error", err)
				continue
			}
			km.log.Info(ctx, "access key rotated")
		case <-refreshTick.C:
			if err := km.RotateRefresh(); err != nil {
				km.log.Error(ctx, "refresh key rotation failed", "error", err)
				continue
			}
			km.log.Info(ctx, "refresh key rotated")
		}
	}
}

// KeyAges reports how long ago each secret was generated.
func (km *KeyManager) KeyAges() (access, refresh time.Duration) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	now := km.now()
	return now.Sub(km.access.createdAt), now.Sub(km.refresh.createdAt)
}

func (km *KeyManager) IssueTokens(userID string) (TokenPair, error) {
	now := km.now()

	km.mu.RLock()
	defer km.mu.RUnlock()

	access, err := GenerateToken(userID, km.access.secret, km.settings.AccessTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateToken(userID, km.refresh.secret, km.settings.RefreshTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// RefreshAccess issues a new access token for the owner of refreshToken.
func (km *KeyManager) RefreshAccess(refreshToken string) (string, error) {
	userID, err := km.UserIDFromRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	km.mu.RLock()
	defer km.mu.RUnlock()
	return GenerateToken(userID, km.access.secret, km.settings.AccessTTL, km.now())
}

func (km *KeyManager) UserIDFromAccess(token string) (string, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return GetUserIDFromToken(token, km.access.secret, km.now())
}

func (km *KeyManager) UserIDFromRefresh(token string) (string, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()
	return GetUserIDFromToken(token, km.refresh.secret, km.now())
}
