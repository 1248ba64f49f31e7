package vault

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophvault/internal/auth"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/storage"
)

func newUsers(t *testing.T, withKeys bool) *Users {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:", logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var km *auth.KeyManager
	if withKeys {
		km, err = auth.NewKeyManager(auth.Settings{}, logging.Nop())
		require.NoError(t, err)
	}
	return NewUsers(db, km, Options{})
}

func TestUsers_Register(t *testing.T) {
	ctx := context.Background()
	u := newUsers(t, false)

	user, err := u.Register(ctx, " Alice ", "Alice@Example.com", userPass)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.NotEqual(t, userPass, user.PasswordHash)
	assert.Contains(t, user.PasswordHash, "$argon2id$v=19$m=19456,t=2,p=1$")

	profile, err := u.Profile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user, profile)

	_, err = u.Register(ctx, "Alice again", "ALICE@example.com", userPass)
	require.ErrorIs(t, err, ErrEmailTaken)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestUsers_RegisterValidation(t *testing.T) {
	u := newUsers(t, false)

	tests := []struct {
		name, user, email, password string
		wantErr                     error
	}{
		{"empty name", " ", "a@example.com", userPass, ErrEmptyName},
		{"bad email", "A", "example.test@", userPass, ErrInvalidEmail},
		{"weak password", "A", "a@example.com", "password123", ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Register(context.Background(), tt.user, tt.email, tt.password)
			require.ErrorIs(t, err, tt.wantErr)
			require.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestUsers_Authenticate(t *testing.T) {
	ctx := context.Background()
	u := newUsers(t, false)

	reg, err := u.Register(ctx, "Bob", "bob@example.com", userPass)
	require.NoError(t, err)

	got, err := u.Authenticate(ctx, "BOB@example.com", userPass)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, got.ID)

	_, err = u.Authenticate(ctx, "bob@example.com", "Wrong@12345")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = u.Authenticate(ctx, "nobody@example.com", userPass)
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestUsers_Login(t *testing.T) {
	ctx := context.Background()

	u := newUsers(t, true)
	reg, err := u.Register(ctx, "Carol", "carol@example.com", userPass)
	require.NoError(t, err)

	pair, err := u.Login(ctx, "carol@example.com", userPass)
	require.NoError(t, err)
	uid, err := u.keys.UserIDFromAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, uid)

	_, err = u.Login(ctx, "carol@example.com", "Wrong@12345")
	require.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = newUsers(t, false).Login(ctx, "carol@example.com", userPass)
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestUsers_RegisterConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	u := newUsers(t, false)

	const attempts = 4
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = u.Register(ctx, "Dana", "dana@example.com", userPass)
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrEmailTaken)
	}
	assert.Equal(t, 1, ok)
}
