package vault

import (
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/gophvault/internal/common"
)

var (
	ErrInvalidEmail = fmt.Errorf("%w: invalid email", common.ErrorValidation)
	ErrWeakPassword = fmt.Errorf("%w: password must be 8-64 characters of upper and lower case letters, digits and one of !@#$%%^&*_-", common.ErrorValidation)
	ErrEmailTaken   = fmt.Errorf("%w: email already registered", common.ErrorValidation)
	ErrEmptyName    = fmt.Errorf("%w: name must not be empty", common.ErrorValidation)
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

const (
	passwordMinLen = 8
	passwordMaxLen = 64
)

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidPassword reports whether password has 8 to 64 characters drawn only
// from upper case, lower case, digits and !@#$%^&*_- with at least one of
// each class.
func ValidPassword(password string) bool {
	if len(password) < passwordMinLen || len(password) > passwordMaxLen {
		return false
	}

	const (
		upper = 1 << iota
		lower
		digit
		special
		all = upper | lower | digit | special
	)

	var seen int
	for i := 0; i < len(password); i++ {
		switch c := password[i]; {
		case c >= 'A' && c <= 'Z':
			seen |= upper
		case c >= 'a' && c <= 'z':
			seen |= lower
		case c >= '0' && c <= '9':
			seen |= digit
		case c == '!' || c == '@' || c == '#' || c == '$' || c == '%' || c == '^' || c == '&' || c == '*' || c == '_' || c == '-':
			seen |= special
		default:
			return false
		}
	}
	return seen == all
}
