package query

// Builder assembles a Query fluently. The zero value is not usable; call New.
type Builder struct {
	q Query
}

func New() *Builder { return &Builder{} }

func (b *Builder) Select(column string) *Builder {
	b.q.Select = append(b.q.Select, Select{Column: column})
	return b
}

func (b *Builder) SelectAs(column, alias string) *Builder {
	b.q.Select = append(b.q.Select, Select{Column: column, Alias: &alias})
	return b
}

func (b *Builder) Filter(f Filter) *Builder {
	b.q.Filters = append(b.q.Filters, f)
	return b
}

func (b *Builder) Order(column string, dir Direction) *Builder {
	b.q.Orders = append(b.q.Orders, OrderBy{Column: column, Direction: dir})
	return b
}

func (b *Builder) Aggregate(op AggregateOp, column string) *Builder {
	b.q.Aggregates = append(b.q.Aggregates, Aggregate{Column: column, Operation: op})
	return b
}

func (b *Builder) AggregateAs(op AggregateOp, column, alias string) *Builder {
	b.q.Aggregates = append(b.q.Aggregates, Aggregate{Column: column, Operation: op, Alias: &alias})
	return b
}

func (b *Builder) Group(column string) *Builder {
	b.q.Groups = append(b.q.Groups, Group{Column: column})
	return b
}

func (b *Builder) GroupAs(column, alias string) *Builder {
	b.q.Groups = append(b.q.Groups, Group{Column: column, Alias: &alias})
	return b
}

func (b *Builder) Limit(n int64) *Builder {
	b.q.Limit = &n
	return b
}

func (b *Builder) Offset(n int64) *Builder {
	b.q.Offset = &n
	return b
}

// Build returns an independent copy of the accumulated query.
func (b *Builder) Build() Query {
	q := b.q.Clone()
	q.normalize()
	return q
}

// FilterBuilder assembles a single Filter.
type FilterBuilder struct {
	f Filter
}

func NewFilter(column string) *FilterBuilder {
	return &FilterBuilder{f: Filter{Column: column}}
}

func (fb *FilterBuilder) Operator(op Operator) *FilterBuilder {
	fb.f.Operator = op
	return fb
}

func (fb *FilterBuilder) Value(v any) *FilterBuilder {
	val := Of(v)
	fb.f.Value = &val
	return fb
}

func (fb *FilterBuilder) Values(vs ...any) *FilterBuilder {
	fb.f.Values = Values(vs...)
	return fb
}

func (fb *FilterBuilder) Glue(g Glue) *FilterBuilder {
	fb.f.Glue = &g
	return fb
}

func (fb *FilterBuilder) Build() Filter {
	f := fb.f
	f.Value = clonePtr(f.Value)
	f.Values = append([]Value(nil), f.Values...)
	if len(f.Values) == 0 {
		f.Values = nil
	}
	f.Glue = clonePtr(f.Glue)
	return f
}

func unary(column string, op Operator, v any) Filter {
	val := Of(v)
	return Filter{Column: column, Operator: op, Value: &val}
}

func list[T any](column string, op Operator, vs []T) Filter {
	return Filter{Column: column, Operator: op, Values: Values(vs...)}
}

func Equal(column string, v any) Filter          { return unary(column, OpEq, v) }
func NotEqual(column string, v any) Filter       { return unary(column, OpNe, v) }
func GreaterThan(column string, v any) Filter    { return unary(column, OpGt, v) }
func NotGreater(column string, v any) Filter     { return unary(column, OpNg, v) }
func LessThan(column string, v any) Filter       { return unary(column, OpLt, v) }
func NotLess(column string, v any) Filter        { return unary(column, OpNl, v) }
func GreaterOrEqual(column string, v any) Filter { return unary(column, OpGe, v) }
func LessOrEqual(column string, v any) Filter    { return unary(column, OpLe, v) }
func Like(column, pattern string) Filter         { return unary(column, OpLike, pattern) }
func StartsWith(column, prefix string) Filter    { return unary(column, OpStartsWith, prefix) }
func EndsWith(column, suffix string) Filter      { return unary(column, OpEndsWith, suffix) }
func NotLike(column, pattern string) Filter      { return unary(column, OpNotLike, pattern) }

func InList[T any](column string, vs ...T) Filter    { return list(column, OpIn, vs) }
func NotInList[T any](column string, vs ...T) Filter { return list(column, OpNotIn, vs) }

func IsNull(column string) Filter    { return Filter{Column: column, Operator: OpIsNull} }
func IsNotNull(column string) Filter { return Filter{Column: column, Operator: OpIsNotNull} }
