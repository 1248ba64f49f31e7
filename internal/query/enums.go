package query

import (
	"encoding/json"
	"fmt"
)

// Operator is a filter comparison. It serializes as its member name.
type Operator string

const (
	OpEq         Operator = "Eq"
	OpNe         Operator = "Ne"
	OpGt         Operator = "Gt"
	OpNg         Operator = "Ng"
	OpLt         Operator = "Lt"
	OpNl         Operator = "Nl"
	OpGe         Operator = "Ge"
	OpLe         Operator = "Le"
	OpLike       Operator = "Like"
	OpStartsWith Operator = "StartsWith"
	OpEndsWith   Operator = "EndsWith"
	OpNotLike    Operator = "NotLike"
	OpIn         Operator = "In"
	OpNotIn      Operator = "NotIn"
	OpIsNull     Operator = "IsNull"
	OpIsNotNull  Operator = "IsNotNull"
)

var operatorTokens = map[Operator]string{
	OpEq:         "=",
	OpNe:         "<>",
	OpGt:         ">",
	OpNg:         "!>",
	OpLt:         "<",
	OpNl:         "!<",
	OpGe:         ">=",
	OpLe:         "<=",
	OpLike:       "LIKE",
	OpStartsWith: "LIKE",
	OpEndsWith:   "LIKE",
	OpNotLike:    "NOT LIKE",
	OpIn:         "IN",
	OpNotIn:      "NOT IN",
	OpIsNull:     "IS NULL",
	OpIsNotNull:  "IS NOT NULL",
}

// SQL returns the operator token, or "" for an unknown operator.
func (o Operator) SQL() string { return operatorTokens[o] }

func (o Operator) Valid() bool {
	_, ok := operatorTokens[o]
	return ok
}

// IsList reports whether the operator takes a list of values.
func (o Operator) IsList() bool { return o == OpIn || o == OpNotIn }

// IsNullCheck reports whether the operator takes no operand.
func (o Operator) IsNullCheck() bool { return o == OpIsNull || o == OpIsNotNull }

// IsPattern reports whether the operator compiles to a LIKE comparison.
func (o Operator) IsPattern() bool {
	switch o {
	case OpLike, OpStartsWith, OpEndsWith, OpNotLike:
		return true
	}
	return false
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, o, "operator")
}

// AggregateOp is an aggregate function.
type AggregateOp string

const (
	AggCount AggregateOp = "Count"
	AggSum   AggregateOp = "Sum"
	AggAvg   AggregateOp = "Avg"
	AggMin   AggregateOp = "Min"
	AggMax   AggregateOp = "Max"
)

var aggregateTokens = map[AggregateOp]string{
	AggCount: "COUNT",
	AggSum:   "SUM",
	AggAvg:   "AVG",
	AggMin:   "MIN",
	AggMax:   "MAX",
}

func (a AggregateOp) SQL() string { return aggregateTokens[a] }

func (a AggregateOp) Valid() bool {
	_, ok := aggregateTokens[a]
	return ok
}

func (a *AggregateOp) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, a, "aggregate operation")
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "Asc"
	Desc Direction = "Desc"
)

func (d Direction) SQL() string {
	switch d {
	case Asc:
		return "ASC"
	case Desc:
		return "DESC"
	}
	return ""
}

func (d Direction) Valid() bool { return d == Asc || d == Desc }

func (d *Direction) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, d, "direction")
}

// Glue joins a filter to the one before it.
type Glue string

const (
	GlueAnd Glue = "And"
	GlueOr  Glue = "Or"
	GlueNot Glue = "Not"
)

func (g Glue) SQL() string {
	switch g {
	case GlueAnd:
		return "AND"
	case GlueOr:
		return "OR"
	case GlueNot:
		return "NOT"
	}
	return ""
}

func (g Glue) Valid() bool { return g.SQL() != "" }

func (g *Glue) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, g, "glue")
}

type enum interface {
	~string
	Valid() bool
}

func decodeEnum[T enum](data []byte, dst *T, what string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s must be a string", ErrInvalidQuery, what)
	}
	v := T(s)
	if !v.Valid() {
		return fmt.Errorf("%w: unknown %s %q", ErrInvalidQuery, what, s)
	}
	*dst = v
	return nil
}
