package query

import "errors"

var (
	// ErrInvalidQuery reports a request that cannot be decoded or violates
	// the query shape (unknown enum member, negative limit or offset).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidFilter reports a filter whose operands do not fit its operator.
	ErrInvalidFilter = errors.New("invalid filter")
)
