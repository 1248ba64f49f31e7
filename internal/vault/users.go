package vault

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophvault/internal/auth"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/cryptox"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/query"
	"github.com/dmitrijs2005/gophvault/internal/repository"
)

var newUserID = uuid.NewString

// Users registers and authenticates vault accounts.
type Users struct {
	db      *sql.DB
	repo    *repository.Repository[models.User, *models.User]
	keys    *auth.KeyManager
	now     func() time.Time
	log     logging.Logger
	metrics *Metrics
}

// NewUsers builds the account service. keys may be nil when sessions are
// not issued, in which case Login fails with common.ErrorInternal.
func NewUsers(db *sql.DB, keys *auth.KeyManager, opts Options) *Users {
	opts = opts.withDefaults()
	return &Users{
		db:      db,
		repo:    repository.New[models.User](db),
		keys:    keys,
		now:     opts.Now,
		log:     opts.Logger.With("record", "users"),
		metrics: opts.Metrics,
	}
}

// Register creates an account. The email is stored lower-cased and the
// account owns itself.
func (u *Users) Register(ctx context.Context, name, email, password string) (_ *models.User, err error) {
	defer u.track(ctx, "register", time.Now(), &err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if !ValidPassword(password) {
		return nil, ErrWeakPassword
	}
	email = strings.ToLower(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Role: models.RoleUser}
	user.SetID(newUserID())
	user.CreatedBy = user.ID
	user.CreatedAt = u.now().Unix()

	err = dbx.WithTx(ctx, u.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := u.repo.WithTx(tx)
		if _, err := findByEmail(ctx, repo, email); err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		_, err := repo.Insert(ctx, user)
		return err
	})
	if errors.Is(err, common.ErrorAlreadyExists) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the account for email when password matches.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (u *Users) Authenticate(ctx context.Context, email, password string) (_ *models.User, err error) {
	defer u.track(ctx, "authenticate", time.Now(), &err)

	user, err := findByEmail(ctx, u.repo, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	ok, err := cryptox.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// Login authenticates and issues a token pair.
func (u *Users) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	if u.keys == nil {
		return auth.TokenPair{}, fmt.Errorf("%w: no key manager", common.ErrorInternal)
	}
	user, err := u.Authenticate(ctx, email, password)
	if err != nil {
		return auth.TokenPair{}, err
	}
	return u.keys.IssueTokens(user.ID)
}

// Profile loads the account with id.
func (u *Users) Profile(ctx context.Context, id string) (*models.User, error) {
	return u.repo.Get(ctx, id)
}

func findByEmail(ctx context.Context, repo *repository.Repository[models.User, *models.User], email string) (*models.User, error) {
	q := query.New().Filter(query.Equal("email", email)).Limit(1).Build()
	users, err := repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, common.ErrorNotFound
	}
	return users[0], nil
}

func (u *Users) track(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	u.metrics.observe("users", op, start, err)
	if err != nil {
		u.log.Info(ctx, "account operation rejected", "operation", op, "result", resultLabel(err))
	}
}
