package models

// User is a vault account. PasswordHash holds an Argon2id PHC string.
type User struct {
	Meta
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PasswordHash    string  `json:"-"`
	Role            string  `json:"role"`
	TwoFactorSecret *string `json:"-"`
}

const RoleUser = "user"

var userColumns = columns("name", "email", "password_hash", "role", "two_factor_secret")

func (u *User) TableName() string { return "users" }
func (u *User) Columns() []string { return userColumns }

func (u *User) Values() []any {
	return append(u.metaValues(), u.Name, u.Email, u.PasswordHash, u.Role, u.TwoFactorSecret)
}

func (u *User) ScanTargets() []any {
	return append(u.metaTargets(), &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.TwoFactorSecret)
}
