package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"encrypt", "decrypt", "compile", "migrate", "user", "login"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
}

func TestEncryptDecrypt_PasswordStdin(t *testing.T) {
	blob, _, err := execute(t, "master\n", "encrypt", "--password-stdin", "top secret")
	require.NoError(t, err)
	blob = strings.TrimSpace(blob)

	plain, err := cryptox.Decrypt(blob, "master")
	require.NoError(t, err)
	assert.Equal(t, "top secret", plain)

	out, _, err := execute(t, "master\n", "decrypt", "--password-stdin", blob)
	require.NoError(t, err)
	assert.Equal(t, "top secret\n", out)

	_, _, err = execute(t, "other\n", "decrypt", "--password-stdin", blob)
	require.ErrorIs(t, err, cryptox.ErrDecryption)

	_, _, err = execute(t, "\n", "encrypt", "--password-stdin", "x")
	require.ErrorIs(t, err, ErrEmptyPassword)

	_, _, err = execute(t, "master\n", "encrypt", "--password-stdin")
	require.Error(t, err)
}

func TestEncrypt_TerminalPrompt(t *testing.T) {
	origRead, origTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTerm })

	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("typed"), nil }

	blob, errOut, err := execute(t, "", "encrypt", "hello")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Master password:")

	plain, err := cryptox.Decrypt(strings.TrimSpace(blob), "typed")
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)

	isTerminal = func(int) bool { return false }
	_, _, err = execute(t, "", "encrypt", "hello")
	require.Error(t, err)
}

func TestCompile(t *testing.T) {
	fixture := filepath.Join("testdata", "adults.json")

	out, _, err := execute(t, "", "compile", "--table", "users", fixture)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT * FROM users WHERE age >= ?, OR status IN (?, ?) LIMIT ?\n[18,\"active\",\"trial\",10]\n", out)

	out, _, err = execute(t, "", "--standard-glue", "compile", "-t", "users", fixture)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "SELECT * FROM users WHERE age >= ? OR status IN (?, ?) LIMIT ?\n"), out)

	out, _, err = execute(t, `{"select":[{"column":"id"}]}`, "compile", "--json", "-t", "logins", "-")
	require.NoError(t, err)
	var res CompileResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "SELECT id FROM logins", res.SQL)
	assert.Empty(t, res.Params)
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"missing table flag", "", []string{"compile", "-"}},
		{"missing file", "", []string{"compile", "-t", "x", filepath.Join(t.TempDir(), "none.json")}},
		{"unknown operator", `{"filters":[{"column":"a","operator":"Between"}]}`, []string{"compile", "-t", "x", "-"}},
		{"empty in list", `{"filters":[{"column":"a","operator":"In","values":[]}]}`, []string{"compile", "-t", "x", "-"}},
		{"bad log level", "{}", []string{"--log-level", "loud", "compile", "-t", "x", "-"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, tt.args...)
			require.Error(t, err)
		})
	}
}

func TestMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "vault.db")

	out, _, err := execute(t, "", "migrate", "--dsn", dsn, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "is up to date")

	out, _, err = execute(t, "", "migrate", "-d", dsn)
	require.NoError(t, err, "migrating twice is a no-op")
	assert.Contains(t, out, dsn)
}

func TestMigrate_CreatesDatabaseDir(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "dir", "vault.db")

	_, _, err := execute(t, "", "migrate", "--dsn", dsn)
	require.NoError(t, err)
	assert.FileExists(t, dsn)
}

func TestPasswordSource_Lines(t *testing.T) {
	src := newPasswordSource(true, strings.NewReader("account\r\nmaster\n\nlast"), &bytes.Buffer{})

	pw, err := src.read("Account password")
	require.NoError(t, err)
	assert.Equal(t, "account", pw)

	pw, err = src.read("Master password")
	require.NoError(t, err)
	assert.Equal(t, "master", pw)

	opt, err := src.optional("Login password")
	require.NoError(t, err)
	assert.Nil(t, opt, "an empty line is absent")

	opt, err = src.optional("Login password")
	require.NoError(t, err)
	require.NotNil(t, opt)
	assert.Equal(t, "last", *opt)

	opt, err = src.optional("Login password")
	require.NoError(t, err)
	assert.Nil(t, opt, "exhausted input is absent")

	_, err = src.read("Master password")
	require.ErrorIs(t, err, io.EOF)
}
