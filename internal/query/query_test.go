package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeesRequest = `{
  "select": [
    {"column": "name", "alias": null},
    {"column": "department", "alias": "dept"}
  ],
  "filters": [
    {"column": "age", "operator": "Ge", "value": 30, "values": null, "glue": null},
    {"column": "salary", "operator": "Gt", "value": 50000, "values": null, "glue": "And"}
  ],
  "orders": [{"column": "name", "direction": "Asc"}],
  "aggregates": [{"column": "salary", "operation": "Avg", "alias": "avg_salary"}],
  "groups": [{"column": "department", "alias": null}],
  "limit": 10,
  "offset": 5
}`

func TestParse_Employees(t *testing.T) {
	q, err := Parse([]byte(employeesRequest))
	require.NoError(t, err)

	want := New().
		Select("name").
		SelectAs("department", "dept").
		Filter(GreaterOrEqual("age", 30)).
		Filter(GreaterThan("salary", 50000).WithGlue(GlueAnd)).
		Order("name", Asc).
		AggregateAs(AggAvg, "salary", "avg_salary").
		Group("department").
		Limit(10).
		Offset(5).
		Build()

	assert.Equal(t, want, q)
}

func TestQuery_JSONRoundTrip(t *testing.T) {
	q := New().
		Select("name").
		Filter(GreaterThan("age", 18)).
		Filter(Equal("status", "active").WithGlue(GlueAnd)).
		Filter(InList("department", "Engineering", "Marketing").WithGlue(GlueOr)).
		Filter(IsNull("deleted_at").WithGlue(GlueAnd)).
		Order("name", Desc).
		Limit(3).
		Build()

	data, err := json.Marshal(q)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, q, back)
}

func TestQuery_AbsentFieldsEncodeAsNull(t *testing.T) {
	data, err := json.Marshal(New().Build())
	require.NoError(t, err)

	assert.JSONEq(t, `{"select":null,"filters":null,"orders":null,"aggregates":null,"groups":null,"limit":null,"offset":null}`, string(data))
}

func TestParse_NormalizesEmptyLists(t *testing.T) {
	q, err := Parse([]byte(`{"select":[],"filters":[],"orders":[],"aggregates":[],"groups":[]}`))
	require.NoError(t, err)

	assert.Nil(t, q.Select)
	assert.Nil(t, q.Filters)
	assert.Nil(t, q.Orders)
	assert.Nil(t, q.Aggregates)
	assert.Nil(t, q.Groups)
	assert.Nil(t, q.Limit)
	assert.Nil(t, q.Offset)
}

func TestParse_NormalizesEmptyFilterValues(t *testing.T) {
	q, err := Parse([]byte(`{"filters":[
		{"column":"a","operator":"IsNull","values":[]},
		{"column":"b","operator":"Eq","value":1,"values":[],"glue":"And"}
	]}`))
	require.NoError(t, err)

	want := New().Filter(IsNull("a")).Filter(Equal("b", 1).WithGlue(GlueAnd)).Build()
	assert.Equal(t, want, q)

	q, err = Parse([]byte(`{"filters":[{"column":"c","operator":"In","values":[]}]}`))
	require.NoError(t, err)
	assert.Nil(t, q.Filters[0].Values)
	require.ErrorIs(t, q.Filters[0].Validate(), ErrInvalidFilter)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{`},
		{"unknown operator", `{"filters":[{"column":"a","operator":"Between","value":1}]}`},
		{"operator not a string", `{"filters":[{"column":"a","operator":3,"value":1}]}`},
		{"unknown glue", `{"filters":[{"column":"a","operator":"Eq","value":1,"glue":"Xor"}]}`},
		{"unknown direction", `{"orders":[{"column":"a","direction":"Up"}]}`},
		{"unknown aggregate", `{"aggregates":[{"column":"a","operation":"Median"}]}`},
		{"negative limit", `{"limit":-1}`},
		{"negative offset", `{"offset":-2}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			require.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestQuery_And(t *testing.T) {
	base := New().Filter(Equal("title", "mail")).Build()

	scoped := base.And(Equal("created_by", "u1"))
	require.Len(t, scoped.Filters, 2)
	require.NotNil(t, scoped.Filters[1].Glue)
	assert.Equal(t, GlueAnd, *scoped.Filters[1].Glue)
	assert.Len(t, base.Filters, 1, "receiver must not change")

	first := Query{}.And(Equal("created_by", "u1"))
	require.Len(t, first.Filters, 1)
	assert.Nil(t, first.Filters[0].Glue)

	kept := base.And(Equal("x", 1).WithGlue(GlueOr))
	assert.Equal(t, GlueOr, *kept.Filters[1].Glue)
}

func TestBuilder_BuildIsIndependent(t *testing.T) {
	b := New().Select("a")
	q1 := b.Build()
	b.Select("b")
	q2 := b.Build()

	assert.Len(t, q1.Select, 1)
	assert.Len(t, q2.Select, 2)
}

func TestFilterBuilder(t *testing.T) {
	f := NewFilter("department").Operator(OpIn).Values("Engineering", "Marketing").Glue(GlueOr).Build()
	assert.Equal(t, InList("department", "Engineering", "Marketing").WithGlue(GlueOr), f)

	g := NewFilter("age").Operator(OpGt).Value(18).Build()
	assert.Equal(t, GreaterThan("age", 18), g)
}

func TestFilter_Validate(t *testing.T) {
	bad := Glue("Xor")
	tests := []struct {
		name    string
		filter  Filter
		wantErr bool
	}{
		{"eq", Equal("a", 1), false},
		{"like", Like("a", "x"), false},
		{"in", InList("a", 1, 2), false},
		{"is null", IsNull("a"), false},
		{"empty column", Equal("", 1), true},
		{"unknown operator", Filter{Column: "a", Operator: "Between"}, true},
		{"unknown glue", Filter{Column: "a", Operator: OpIsNull, Glue: &bad}, true},
		{"missing value", Filter{Column: "a", Operator: OpEq}, true},
		{"unary with values", Filter{Column: "a", Operator: OpEq, Value: &Value{}, Values: []Value{Int(1)}}, true},
		{"empty in", InList[int]("a"), true},
		{"in with value", Filter{Column: "a", Operator: OpIn, Value: &Value{}, Values: []Value{Int(1)}}, true},
		{"is null with value", Filter{Column: "a", Operator: OpIsNull, Value: &Value{}}, true},
		{"comparison with int", GreaterOrEqual("a", 1), false},
		{"like rejects int", Filter{Column: "a", Operator: OpLike, Value: &Value{kind: KindInt, i: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidFilter)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestOperator_SQL(t *testing.T) {
	want := map[Operator]string{
		OpEq: "=", OpNe: "<>", OpGt: ">", OpNg: "!>", OpLt: "<", OpNl: "!<", OpGe: ">=", OpLe: "<=",
		OpLike: "LIKE", OpStartsWith: "LIKE", OpEndsWith: "LIKE", OpNotLike: "NOT LIKE",
		OpIn: "IN", OpNotIn: "NOT IN", OpIsNull: "IS NULL", OpIsNotNull: "IS NOT NULL",
	}
	for op, tok := range want {
		assert.Equal(t, tok, op.SQL(), op)
	}
	assert.Equal(t, "", Operator("Between").SQL())
}

func TestRendering(t *testing.T) {
	alias := "dept"
	assert.Equal(t, "department AS dept", Select{Column: "department", Alias: &alias}.String())
	assert.Equal(t, "name", Select{Column: "name"}.String())
	assert.Equal(t, "AVG(salary) AS avg_salary", Aggregate{Column: "salary", Operation: AggAvg, Alias: ptr("avg_salary")}.String())
	assert.Equal(t, "COUNT(id)", Aggregate{Column: "id", Operation: AggCount}.String())
	assert.Equal(t, "name DESC", OrderBy{Column: "name", Direction: Desc}.String())
	assert.Equal(t, "department", Group{Column: "department"}.String())
}

func ptr[T any](v T) *T { return &v }
