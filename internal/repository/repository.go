// Package repository implements generic CRUD and list persistence for any
// record that describes its own table layout.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/dbx"
	"github.com/dmitrijs2005/gophvault/internal/query"
	"github.com/dmitrijs2005/gophvault/internal/sqlbuilder"
	"github.com/dmitrijs2005/gophvault/internal/storage"
)

// Record is the capability set a type needs to be stored by Repository.
// Columns lists the identity column first; Values and ScanTargets follow
// the same order.
type Record interface {
	TableName() string
	Columns() []string
	IDColumn() string
	Values() []any
	ScanTargets() []any
	GetID() string
	SetID(id string)
}

// RecordPtr constrains P to be *T implementing Record.
type RecordPtr[T any] interface {
	*T
	Record
}

type Repository[T any, P RecordPtr[T]] struct {
	db    dbx.DBTX
	newID func() string
}

// New returns a repository for T bound to db.
//
//	logins := repository.New[models.Login](db)
func New[T any, P RecordPtr[T]](db dbx.DBTX) *Repository[T, P] {
	return &Repository[T, P]{db: db, newID: uuid.NewString}
}

// WithTx returns a copy of r bound to tx.
func (r *Repository[T, P]) WithTx(tx dbx.DBTX) *Repository[T, P] {
	c := *r
	c.db = tx
	return &c
}

func (r *Repository[T, P]) layout() (table string, cols []string, idCol string) {
	var zero T
	p := P(&zero)
	return p.TableName(), p.Columns(), p.IDColumn()
}

// Insert stores rec, assigning a fresh UUID when its id is empty.
func (r *Repository[T, P]) Insert(ctx context.Context, rec P) (P, error) {
	if rec.GetID() == "" {
		rec.SetID(r.newID())
	}

	cols := rec.Columns()
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		rec.TableName(), strings.Join(cols, ", "), placeholders(len(cols)))

	res, err := r.db.ExecContext(ctx, stmt, rec.Values()...)
	if err != nil {
		return nil, writeError(err)
	}
	if err := dbx.RequireAffected(res, 1); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Get loads the record with the given id or returns common.ErrorNotFound.
func (r *Repository[T, P]) Get(ctx context.Context, id string) (P, error) {
	table, cols, idCol := r.layout()

	q := query.New().Filter(query.Equal(idCol, id)).Limit(1).Build()
	q.Select = selectAll(cols)

	stmt, args, err := sqlbuilder.Build(table, q)
	if err != nil {
		return nil, err
	}

	rec := P(new(T))
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(rec.ScanTargets()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Update overwrites every non-identity column of the record with id.
func (r *Repository[T, P]) Update(ctx context.Context, id string, rec P) (P, error) {
	rec.SetID(id)

	cols := rec.Columns()
	vals := rec.Values()
	sets := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		sets = append(sets, c+" = ?")
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", rec.TableName(), strings.Join(sets, ", "), rec.IDColumn())
	args := append(vals[1:len(vals):len(vals)], id)

	res, err := r.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return nil, writeError(err)
	}
	if err := notFoundIfNone(res); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes the record with id or returns common.ErrorNotFound.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	table, _, idCol := r.layout()

	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, idCol), id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return notFoundIfNone(res)
}

// Scope restricts List and Count to rows where Column equals Value. Scopes
// are applied in a derived table, so the glue of caller filters cannot widen
// them.
type Scope struct {
	Column string
	Value  any
}

// List returns the records matching q within scopes. The selection is always
// the full record; aggregates and groups are ignored. Filter, order and scope
// columns must belong to the record, otherwise common.ErrorValidation is
// returned.
func (r *Repository[T, P]) List(ctx context.Context, q query.Query, scopes ...Scope) ([]P, error) {
	table, cols, _ := r.layout()
	if err := checkColumns(q, scopes, cols); err != nil {
		return nil, err
	}

	q = q.Clone()
	q.Select = selectAll(cols)
	q.Aggregates = nil
	q.Groups = nil

	stmt, args, err := r.compile(table, q, scopes)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out, err := dbx.CollectRows(rows, func(rows *sql.Rows) (P, error) {
		rec := P(new(T))
		return rec, rows.Scan(rec.ScanTargets()...)
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// Count returns how many records within scopes match the filters of q.
func (r *Repository[T, P]) Count(ctx context.Context, q query.Query, scopes ...Scope) (int64, error) {
	table, cols, _ := r.layout()
	if err := checkColumns(q, scopes, cols); err != nil {
		return 0, err
	}

	cq := query.Query{Filters: q.Clone().Filters}
	cq.Aggregates = []query.Aggregate{{Column: "*", Operation: query.AggCount}}

	stmt, args, err := r.compile(table, cq, scopes)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *Repository[T, P]) compile(table string, q query.Query, scopes []Scope) (string, []any, error) {
	source := table
	var args []any
	if len(scopes) > 0 {
		conds := make([]string, len(scopes))
		for i, sc := range scopes {
			conds[i] = sc.Column + " = ?"
			args = append(args, sc.Value)
		}
		source = fmt.Sprintf("(SELECT * FROM %s WHERE %s) AS %s", table, strings.Join(conds, " AND "), table)
	}

	stmt, params, err := sqlbuilder.Build(source, q, sqlbuilder.WithStandardGlue())
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", common.ErrorValidation, err)
	}
	return stmt, append(args, params...), nil
}

func checkColumns(q query.Query, scopes []Scope, cols []string) error {
	for _, sc := range scopes {
		if !slices.Contains(cols, sc.Column) {
			return fmt.Errorf("%w: unknown scope column %q", common.ErrorValidation, sc.Column)
		}
	}
	for _, f := range q.Filters {
		if !slices.Contains(cols, f.Column) {
			return fmt.Errorf("%w: unknown filter column %q", common.ErrorValidation, f.Column)
		}
	}
	for _, o := range q.Orders {
		if !slices.Contains(cols, o.Column) {
			return fmt.Errorf("%w: unknown order column %q", common.ErrorValidation, o.Column)
		}
	}
	return nil
}

func selectAll(cols []string) []query.Select {
	out := make([]query.Select, len(cols))
	for i, c := range cols {
		out[i] = query.Select{Column: c}
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// writeError wraps a failed write, marking unique constraint violations
// with common.ErrorAlreadyExists.
func writeError(err error) error {
	if storage.IsUniqueViolation(err) {
		return fmt.Errorf("db error: %w: %w", common.ErrorAlreadyExists, err)
	}
	return fmt.Errorf("db error: %w", err)
}

func notFoundIfNone(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
