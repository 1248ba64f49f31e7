package sqlbuilder

import (
	"errors"

	"github.com/dmitrijs2005/gophvault/internal/query"
)

var (
	// ErrInvalidFilter is query.ErrInvalidFilter, re-exported for callers
	// that only import the builder.
	ErrInvalidFilter = query.ErrInvalidFilter
	// ErrUnsupportedValue reports a filter operand that cannot be bound as
	// a SQL parameter.
	ErrUnsupportedValue = errors.New("unsupported value type for binding")
)
