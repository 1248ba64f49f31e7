package models

type Tag struct {
	Meta
	Name string `json:"name"`
}

var tagColumns = columns("name")

func (t *Tag) TableName() string  { return "tags" }
func (t *Tag) Columns() []string  { return tagColumns }
func (t *Tag) Values() []any      { return append(t.metaValues(), t.Name) }
func (t *Tag) ScanTargets() []any { return append(t.metaTargets(), &t.Name) }
