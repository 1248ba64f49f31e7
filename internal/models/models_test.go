package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record interface {
	TableName() string
	Columns() []string
	IDColumn() string
	Values() []any
	ScanTargets() []any
	GetID() string
	SetID(string)
}

func TestRecords_Layout(t *testing.T) {
	tests := []struct {
		rec   record
		table string
	}{
		{&Login{}, "logins"},
		{&Note{}, "notes"},
		{&FinancialCard{}, "financial_cards"},
		{&IdentityCard{}, "identity_cards"},
		{&Tag{}, "tags"},
		{&User{}, "users"},
	}
	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			assert.Equal(t, tt.table, tt.rec.TableName())

			cols := tt.rec.Columns()
			require.NotEmpty(t, cols)
			assert.Equal(t, tt.rec.IDColumn(), cols[0], "identity column first")
			assert.Len(t, tt.rec.Values(), len(cols))
			assert.Len(t, tt.rec.ScanTargets(), len(cols))

			seen := map[string]bool{}
			for _, c := range cols {
				assert.False(t, seen[c], "duplicate column %s", c)
				seen[c] = true
			}

			tt.rec.SetID("abc")
			assert.Equal(t, "abc", tt.rec.GetID())
			assert.Equal(t, "abc", tt.rec.Values()[0])
		})
	}
}

func TestScanTargets_PointIntoRecord(t *testing.T) {
	var l Login
	targets := l.ScanTargets()

	*targets[0].(*string) = "id-1"
	*targets[5].(*string) = "github"
	pw := "secret"
	*targets[9].(**string) = &pw
	*targets[11].(*bool) = true

	assert.Equal(t, "id-1", l.ID)
	assert.Equal(t, "github", l.Name)
	require.NotNil(t, l.Password)
	assert.Equal(t, "secret", *l.Password)
	assert.True(t, l.IsFavorite)
}

func TestSecretFields(t *testing.T) {
	pw, keys, cvv := "pw", `["k"]`, "123"
	body := "body"

	login := &Login{Password: &pw, APIKeys: &keys}
	assert.Equal(t, []*string{login.Password, login.APIKeys}, login.SecretFields())
	assert.Empty(t, (&Login{}).SecretFields())

	note := &Note{Note: &body}
	assert.Equal(t, []*string{note.Note}, note.SecretFields())

	card := &FinancialCard{CardNumber: "4111", CVV: &cvv}
	fields := card.SecretFields()
	require.Len(t, fields, 2)
	*fields[0] = "sealed"
	assert.Equal(t, "sealed", card.CardNumber)

	id := &IdentityCard{IdentityCardNumber: "X1"}
	require.Len(t, id.SecretFields(), 1)
}

func TestTags(t *testing.T) {
	assert.Nil(t, SplitTags(nil))
	assert.Nil(t, SplitTags(JoinTags(nil)))

	csv := " work, ,home ,"
	assert.Equal(t, []string{"work", "home"}, SplitTags(&csv))

	joined := JoinTags([]string{"a", "b"})
	require.NotNil(t, joined)
	assert.Equal(t, "a,b", *joined)
}
