package models

// Login is a stored website or application credential.
type Login struct {
	Meta
	Name         string  `json:"name"`
	Note         *string `json:"note,omitempty"`
	Username     string  `json:"username"`
	URL          *string `json:"url,omitempty"`
	Password     *string `json:"password,omitempty"`
	PasswordHint *string `json:"password_hint,omitempty"`
	IsFavorite   bool    `json:"is_favorite"`
	Tags         *string `json:"tags,omitempty"`
	// APIKeys is a JSON array of API keys.
	APIKeys *string `json:"api_keys,omitempty"`
}

var loginColumns = columns("name", "note", "username", "url", "password", "password_hint", "is_favorite", "tags", "api_keys")

func (l *Login) TableName() string { return "logins" }
func (l *Login) Columns() []string { return loginColumns }

func (l *Login) Values() []any {
	return append(l.metaValues(), l.Name, l.Note, l.Username, l.URL, l.Password, l.PasswordHint, l.IsFavorite, l.Tags, l.APIKeys)
}

func (l *Login) ScanTargets() []any {
	return append(l.metaTargets(), &l.Name, &l.Note, &l.Username, &l.URL, &l.Password, &l.PasswordHint, &l.IsFavorite, &l.Tags, &l.APIKeys)
}

func (l *Login) SecretFields() []*string {
	return appendSecret(appendSecret(nil, l.Password), l.APIKeys)
}
