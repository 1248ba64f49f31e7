package models

// FinancialCard is a payment card.
type FinancialCard struct {
	Meta
	Name           string  `json:"name"`
	Note           *string `json:"note,omitempty"`
	CardholderName string  `json:"cardholder_name"`
	CardNumber     string  `json:"card_number"`
	CardType       *string `json:"card_type,omitempty"`
	CVV            *string `json:"cvv,omitempty"`
	ExpiryMonth    *string `json:"expiry_month,omitempty"`
	ExpiryYear     *string `json:"expiry_year,omitempty"`
	PIN            *string `json:"pin,omitempty"`
	IsFavorite     bool    `json:"is_favorite"`
	Tags           *string `json:"tags,omitempty"`
}

var financialCardColumns = columns("name", "note", "cardholder_name", "card_number", "card_type", "cvv",
	"expiry_month", "expiry_year", "pin", "is_favorite", "tags")

func (c *FinancialCard) TableName() string { return "financial_cards" }
func (c *FinancialCard) Columns() []string { return financialCardColumns }

func (c *FinancialCard) Values() []any {
	return append(c.metaValues(), c.Name, c.Note, c.CardholderName, c.CardNumber, c.CardType, c.CVV,
		c.ExpiryMonth, c.ExpiryYear, c.PIN, c.IsFavorite, c.Tags)
}

func (c *FinancialCard) ScanTargets() []any {
	return append(c.metaTargets(), &c.Name, &c.Note, &c.CardholderName, &c.CardNumber, &c.CardType, &c.CVV,
		&c.ExpiryMonth, &c.ExpiryYear, &c.PIN, &c.IsFavorite, &c.Tags)
}

func (c *FinancialCard) SecretFields() []*string {
	return appendSecret(appendSecret([]*string{&c.CardNumber}, c.CVV), c.PIN)
}

// IdentityCard is a passport, driving licence or similar document.
type IdentityCard struct {
	Meta
	Name               string  `json:"name"`
	Note               *string `json:"note,omitempty"`
	Country            *string `json:"country,omitempty"`
	ExpiryDate         *string `json:"expiry_date,omitempty"`
	IdentityCardNumber string  `json:"identity_card_number"`
	IdentityCardType   *string `json:"identity_card_type,omitempty"`
	IssueDate          *string `json:"issue_date,omitempty"`
	NameOnCard         string  `json:"name_on_card"`
	State              *string `json:"state,omitempty"`
	IsFavorite         bool    `json:"is_favorite"`
	Tags               *string `json:"tags,omitempty"`
}

var identityCardColumns = columns("name", "note", "country", "expiry_date", "identity_card_number",
	"identity_card_type", "issue_date", "name_on_card", "state", "is_favorite", "tags")

func (c *IdentityCard) TableName() string { return "identity_cards" }
func (c *IdentityCard) Columns() []string { return identityCardColumns }

func (c *IdentityCard) Values() []any {
	return append(c.metaValues(), c.Name, c.Note, c.Country, c.ExpiryDate, c.IdentityCardNumber,
		c.IdentityCardType, c.IssueDate, c.NameOnCard, c.State, c.IsFavorite, c.Tags)
}

func (c *IdentityCard) ScanTargets() []any {
	return append(c.metaTargets(), &c.Name, &c.Note, &c.Country, &c.ExpiryDate, &c.IdentityCardNumber,
		&c.IdentityCardType, &c.IssueDate, &c.NameOnCard, &c.State, &c.IsFavorite, &c.Tags)
}

func (c *IdentityCard) SecretFields() []*string {
	return []*string{&c.IdentityCardNumber}
}
