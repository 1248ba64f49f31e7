// Package query defines the abstract list request accepted by vault list
// operations: selected columns, filters, ordering, aggregates, grouping and
// paging.
//
// A Query is plain data. It round-trips through JSON without losing list
// order, and an absent list (nil, encoded as null) is different from a
// present one: only present lists produce a SQL clause. Builder and Parse
// never yield a present-but-empty list.
//
// Typical usage
//
//	q := query.New().
//		Select("name").
//		Filter(query.GreaterThan("age", 18)).
//		Filter(query.Equal("city", "New York").WithGlue(query.GlueAnd)).
//		Order("name", query.Asc).
//		Limit(10).
//		Build()
//
// Compiling a Query to SQL lives in internal/sqlbuilder.
package query
