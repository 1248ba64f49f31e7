// Package sqlbuilder compiles a query.Query for a table into a SQL statement
// with positional ? placeholders and the matching parameter list.
//
// Table and column names are emitted verbatim. They must come from trusted
// code, never from request input; only filter operands, limit and offset
// are bound as parameters.
package sqlbuilder

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophvault/internal/query"
)

const (
	compatSeparator   = ", "
	standardSeparator = " "
)

// Option configures a Builder.
type Option func(*Builder)

// WithStandardGlue joins WHERE fragments with a single space so that glue
// tokens form an ordinary boolean expression (a > ? AND b = ?). Without it
// fragments are separated by ", " for compatibility with stored queries.
func WithStandardGlue() Option {
	return func(b *Builder) { b.separator = standardSeparator }
}

// Builder holds the state of a single compilation.
type Builder struct {
	table     string
	q         query.Query
	params    []any
	analytic  bool
	filtered  bool
	separator string
}

func New(table string, q query.Query, opts ...Option) *Builder {
	b := &Builder{
		table:     table,
		q:         q,
		analytic:  q.Aggregates != nil,
		filtered:  len(q.Filters) > 0,
		separator: compatSeparator,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns the SQL text and its parameters in placeholder order.
// Calling Build again yields the same result.
func (b *Builder) Build() (string, []any, error) {
	b.params = nil

	if err := b.q.Validate(); err != nil {
		return "", nil, err
	}

	parts := []string{b.selectClause(), "FROM " + b.table}

	where, err := b.whereClause()
	if err != nil {
		b.params = nil
		return "", nil, err
	}
	if where != "" {
		parts = append(parts, where)
	}
	if s := joinClause("GROUP BY", b.q.Groups); s != "" {
		parts = append(parts, s)
	}
	if s := joinClause("ORDER BY", b.q.Orders); s != "" {
		parts = append(parts, s)
	}
	if b.q.Limit != nil {
		b.params = append(b.params, *b.q.Limit)
		parts = append(parts, "LIMIT ?")
	}
	if b.q.Offset != nil {
		b.params = append(b.params, *b.q.Offset)
		parts = append(parts, "OFFSET ?")
	}

	params := b.params
	b.params = nil
	return strings.Join(parts, " "), params, nil
}

// Build compiles q for table in one call.
func Build(table string, q query.Query, opts ...Option) (string, []any, error) {
	return New(table, q, opts...).Build()
}

func (b *Builder) selectClause() string {
	fields := make([]string, 0, len(b.q.Select)+len(b.q.Aggregates))
	for _, s := range b.q.Select {
		fields = append(fields, s.String())
	}
	if b.analytic {
		for _, a := range b.q.Aggregates {
			fields = append(fields, a.String())
		}
	}
	if len(fields) == 0 {
		return "SELECT *"
	}
	return "SELECT " + strings.Join(fields, ", ")
}

func (b *Builder) whereClause() (string, error) {
	if !b.filtered {
		return "", nil
	}

	fragments := make([]string, 0, len(b.q.Filters))
	for i, f := range b.q.Filters {
		frag, err := b.filterFragment(f, i)
		if err != nil {
			return "", err
		}
		fragments = append(fragments, frag)
	}
	return "WHERE " + strings.Join(fragments, b.separator), nil
}

func (b *Builder) filterFragment(f query.Filter, index int) (string, error) {
	if err := f.Validate(); err != nil {
		return "", err
	}

	var sb strings.Builder
	if index > 0 {
		glue := query.GlueAnd
		if f.Glue != nil {
			glue = *f.Glue
		}
		sb.WriteString(glue.SQL())
		sb.WriteByte(' ')
	}
	sb.WriteString(f.Column)
	sb.WriteByte(' ')
	sb.WriteString(f.Operator.SQL())

	switch {
	case f.Operator.IsNullCheck():
		return sb.String(), nil

	case f.Operator.IsList():
		placeholders := make([]string, len(f.Values))
		for i, v := range f.Values {
			p, err := bind(f.Column, v)
			if err != nil {
				return "", err
			}
			placeholders[i] = "?"
			b.params = append(b.params, p)
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteByte(')')
		return sb.String(), nil
	}

	p, err := b.operand(f)
	if err != nil {
		return "", err
	}
	b.params = append(b.params, p)
	sb.WriteString(" ?")
	return sb.String(), nil
}

func (b *Builder) operand(f query.Filter) (any, error) {
	if !f.Operator.IsPattern() {
		return bind(f.Column, *f.Value)
	}

	s, _ := f.Value.Str()
	switch f.Operator {
	case query.OpStartsWith:
		return s + "%", nil
	case query.OpEndsWith:
		return "%" + s, nil
	default:
		return "%" + s + "%", nil
	}
}

// bind converts a scalar to a database/sql argument.
func bind(column string, v query.Value) (any, error) {
	switch v.Kind() {
	case query.KindNull:
		return nil, nil
	case query.KindBool:
		return v.Bool(), nil
	case query.KindInt:
		return v.Int(), nil
	case query.KindFloat:
		return v.Float(), nil
	case query.KindString:
		s, _ := v.Str()
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s: %s", ErrUnsupportedValue, column, v.Kind())
	}
}

func joinClause[T fmt.Stringer](prefix string, items []T) string {
	if len(items) == 0 {
		return ""
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return prefix + " " + strings.Join(out, ", ")
}
