// Package vault implements the owner-scoped record operations of the
// password vault: secret fields are sealed with the caller's master password
// before they reach storage and opened again on fetch.
package vault

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/logging"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/query"
	"github.com/dmitrijs2005/gophvault/internal/repository"
)

const ownerColumn = "created_by"

// Entity is a storable record carrying the shared audit metadata.
type Entity[T any] interface {
	repository.RecordPtr[T]
	Base() *models.Meta
}

// Options carries the collaborators shared by vault services. Zero fields
// take defaults: a no-op logger, no metrics and the wall clock.
type Options struct {
	Logger  logging.Logger
	Metrics *Metrics
	Now     func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Service manages one record type for its owners.
type Service[T any, P Entity[T]] struct {
	db      *sql.DB
	repo    *repository.Repository[T, P]
	record  string
	now     func() time.Time
	log     logging.Logger
	metrics *Metrics
}

func NewService[T any, P Entity[T]](db *sql.DB, opts Options) *Service[T, P] {
	opts = opts.withDefaults()
	var zero T
	record := P(&zero).TableName()
	return &Service[T, P]{
		db:      db,
		repo:    repository.New[T, P](db),
		record:  record,
		now:     opts.Now,
		log:     opts.Logger.With("record", record),
		metrics: opts.Metrics,
	}
}

// Add stores rec owned by user. Secret fields are encrypted under master;
// the returned record holds the plaintexts again.
func (s *Service[T, P]) Add(ctx context.Context, rec P, user, master string) (_ P, err error) {
	defer s.track(ctx, "add", time.Now(), &err)

	m := rec.Base()
	m.CreatedBy = user
	m.CreatedAt = s.now().Unix()
	m.UpdatedAt = 0
	m.UpdatedBy = ""

	restore, err := seal(rec, master)
	if err != nil {
		return nil, err
	}
	defer restore()

	out, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Fetch loads the record with id and decrypts its secret fields.
func (s *Service[T, P]) Fetch(ctx context.Context, id, user, master string) (_ P, err error) {
	defer s.track(ctx, "fetch", time.Now(), &err)

	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkOwner(rec.Base(), user); err != nil {
		return nil, err
	}
	if err := unseal(rec, master); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update replaces the record with id by rec. Creation metadata is kept from
// the stored record.
func (s *Service[T, P]) Update(ctx context.Context, id string, rec P, user, master string) (_ P, err error) {
	defer s.track(ctx, "update", time.Now(), &err)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(current.Base(), user); err != nil {
			return err
		}

		m := rec.Base()
		m.CreatedAt = current.Base().CreatedAt
		m.CreatedBy = current.Base().CreatedBy
		m.UpdatedAt = s.now().Unix()
		m.UpdatedBy = user

		restore, err := seal(rec, master)
		if err != nil {
			return err
		}
		defer restore()

		_, err = repo.Update(ctx, id, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Remove deletes the record with id.
func (s *Service[T, P]) Remove(ctx context.Context, id, user string) (err error) {
	defer s.track(ctx, "remove", time.Now(), &err)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := checkOwner(current.Base(), user); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// List returns the records of user matching q. Secret fields stay encrypted.
func (s *Service[T, P]) List(ctx context.Context, q query.Query, user string) (_ []P, err error) {
	defer s.track(ctx, "list", time.Now(), &err)

	return s.repo.List(ctx, q, repository.Scope{Column: ownerColumn, Value: user})
}

// Count returns how many records of user match the filters of q.
func (s *Service[T, P]) Count(ctx context.Context, q query.Query, user string) (_ int64, err error) {
	defer s.track(ctx, "count", time.Now(), &err)

	return s.repo.Count(ctx, q, repository.Scope{Column: ownerColumn, Value: user})
}

// Open decrypts the secret fields of a listed record in place.
func (s *Service[T, P]) Open(rec P, master string) error {
	return unseal(rec, master)
}

func checkOwner(m *models.Meta, user string) error {
	if m.CreatedBy != user {
		return fmt.Errorf("%w: record %s", common.ErrorUnauthorized, m.ID)
	}
	return nil
}

func (s *Service[T, P]) track(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	s.metrics.observe(s.record, op, start, err)
	if err != nil {
		s.log.Warn(ctx, "vault operation failed", "operation", op, "result", resultLabel(err), "error", err)
		return
	}
	s.log.Debug(ctx, "vault operation", "operation", op, "duration", time.Since(start))
}
