package models

// Note is a free-form secure note. The body is encrypted at rest.
type Note struct {
	Meta
	Name       string  `json:"name"`
	Note       *string `json:"note,omitempty"`
	IsFavorite bool    `json:"is_favorite"`
	Tags       *string `json:"tags,omitempty"`
}

var noteColumns = columns("name", "note", "is_favorite", "tags")

func (n *Note) TableName() string { return "notes" }
func (n *Note) Columns() []string { return noteColumns }

func (n *Note) Values() []any {
	return append(n.metaValues(), n.Name, n.Note, n.IsFavorite, n.Tags)
}

func (n *Note) ScanTargets() []any {
	return append(n.metaTargets(), &n.Name, &n.Note, &n.IsFavorite, &n.Tags)
}

func (n *Note) SecretFields() []*string { return appendSecret(nil, n.Note) }
