package query

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Query is an abstract list request. Nil lists and pointers are absent and
// encode as JSON null.
type Query struct {
	Select     []Select    `json:"select"`
	Filters    []Filter    `json:"filters"`
	Orders     []OrderBy   `json:"orders"`
	Aggregates []Aggregate `json:"aggregates"`
	Groups     []Group     `json:"groups"`
	Limit      *int64      `json:"limit"`
	Offset     *int64      `json:"offset"`
}

type Select struct {
	Column string  `json:"column"`
	Alias  *string `json:"alias"`
}

func (s Select) String() string { return withAlias(s.Column, s.Alias) }

// Filter is a single predicate. Value is set for unary comparisons, Values
// for In and NotIn, and neither for IsNull and IsNotNull.
type Filter struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    *Value   `json:"value"`
	Values   []Value  `json:"values"`
	Glue     *Glue    `json:"glue"`
}

// WithGlue returns a copy of f joined to the previous filter by g.
func (f Filter) WithGlue(g Glue) Filter {
	f.Glue = &g
	return f
}

// Validate checks that the operands match the operator.
func (f Filter) Validate() error {
	if f.Column == "" {
		return fmt.Errorf("%w: empty column", ErrInvalidFilter)
	}
	if !f.Operator.Valid() {
		return fmt.Errorf("%w: %s: unknown operator %q", ErrInvalidFilter, f.Column, f.Operator)
	}
	if f.Glue != nil && !f.Glue.Valid() {
		return fmt.Errorf("%w: %s: unknown glue %q", ErrInvalidFilter, f.Column, *f.Glue)
	}

	switch {
	case f.Operator.IsNullCheck():
		if f.Value != nil || f.Values != nil {
			return fmt.Errorf("%w: %s: %s takes no operand", ErrInvalidFilter, f.Column, f.Operator)
		}
	case f.Operator.IsList():
		if len(f.Values) == 0 {
			return fmt.Errorf("%w: %s: %s requires a non-empty values list", ErrInvalidFilter, f.Column, f.Operator)
		}
		if f.Value != nil {
			return fmt.Errorf("%w: %s: %s takes a values list, not a value", ErrInvalidFilter, f.Column, f.Operator)
		}
	default:
		if f.Value == nil {
			return fmt.Errorf("%w: %s: %s requires a value", ErrInvalidFilter, f.Column, f.Operator)
		}
		if f.Values != nil {
			return fmt.Errorf("%w: %s: %s takes a single value", ErrInvalidFilter, f.Column, f.Operator)
		}
		if f.Operator.IsPattern() {
			if _, ok := f.Value.Str(); !ok {
				return fmt.Errorf("%w: %s: %s requires a string value, got %s", ErrInvalidFilter, f.Column, f.Operator, f.Value.Kind())
			}
		}
	}
	return nil
}

type OrderBy struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

func (o OrderBy) String() string { return o.Column + " " + o.Direction.SQL() }

type Aggregate struct {
	Column    string      `json:"column"`
	Operation AggregateOp `json:"operation"`
	Alias     *string     `json:"alias"`
}

func (a Aggregate) String() string {
	return withAlias(a.Operation.SQL()+"("+a.Column+")", a.Alias)
}

type Group struct {
	Column string  `json:"column"`
	Alias  *string `json:"alias"`
}

func (g Group) String() string { return withAlias(g.Column, g.Alias) }

func withAlias(expr string, alias *string) string {
	if alias == nil {
		return expr
	}
	return expr + " AS " + *alias
}

// Validate reports the first shape violation in q. Filter operands are
// checked by Filter.Validate.
func (q Query) Validate() error {
	if q.Limit != nil && *q.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidQuery, *q.Limit)
	}
	if q.Offset != nil && *q.Offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrInvalidQuery, *q.Offset)
	}
	for _, o := range q.Orders {
		if !o.Direction.Valid() {
			return fmt.Errorf("%w: %s: unknown direction %q", ErrInvalidQuery, o.Column, o.Direction)
		}
	}
	for _, a := range q.Aggregates {
		if !a.Operation.Valid() {
			return fmt.Errorf("%w: %s: unknown aggregate %q", ErrInvalidQuery, a.Column, a.Operation)
		}
	}
	return nil
}

// Clone returns a deep copy of q.
func (q Query) Clone() Query {
	c := Query{
		Select:     slices.Clone(q.Select),
		Orders:     slices.Clone(q.Orders),
		Aggregates: slices.Clone(q.Aggregates),
		Groups:     slices.Clone(q.Groups),
		Limit:      clonePtr(q.Limit),
		Offset:     clonePtr(q.Offset),
	}
	if q.Filters != nil {
		c.Filters = make([]Filter, len(q.Filters))
		for i, f := range q.Filters {
			f.Value = clonePtr(f.Value)
			f.Values = slices.Clone(f.Values)
			f.Glue = clonePtr(f.Glue)
			c.Filters[i] = f
		}
	}
	return c
}

// And returns a copy of q with f appended. When f follows another filter and
// carries no glue it is joined with AND.
func (q Query) And(f Filter) Query {
	c := q.Clone()
	if len(c.Filters) > 0 && f.Glue == nil {
		f = f.WithGlue(GlueAnd)
	}
	c.Filters = append(c.Filters, f)
	return c
}

// Parse decodes a wire-format query. Present but empty lists, including the
// values of a filter, are normalized to absent.
func Parse(data []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	q.normalize()
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

func (q *Query) normalize() {
	q.Select = nilIfEmpty(q.Select)
	q.Filters = nilIfEmpty(q.Filters)
	q.Orders = nilIfEmpty(q.Orders)
	q.Aggregates = nilIfEmpty(q.Aggregates)
	q.Groups = nilIfEmpty(q.Groups)
	for i := range q.Filters {
		q.Filters[i].Values = nilIfEmpty(q.Filters[i].Values)
	}
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
