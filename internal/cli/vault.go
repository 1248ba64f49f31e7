package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophvault/internal/auth"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/models"
	"github.com/dmitrijs2005/gophvault/internal/query"
	"github.com/dmitrijs2005/gophvault/internal/storage"
	"github.com/dmitrijs2005/gophvault/internal/vault"
)

type accountOptions struct {
	email         string
	passwordStdin bool
}

func (o *accountOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.email, "email", "e", "", "account email")
	cmd.Flags().BoolVar(&o.passwordStdin, "password-stdin", false, "read passwords from stdin, one per line")
	_ = cmd.MarkFlagRequired("email")
}

func (o *accountOptions) source(cmd *cobra.Command) passwordSource {
	return newPasswordSource(o.passwordStdin, cmd.InOrStdin(), cmd.ErrOrStderr())
}

// openDatabase opens the configured vault database, creating its directory
// and applying migrations.
func openDatabase(ctx context.Context, rootOpts *RootOptions) (*sql.DB, error) {
	dsn := rootOpts.Config.DatabaseDSN
	if dir := filex.DatabaseDir(dsn); dir != "" {
		if _, err := filex.EnsureDir(dir); err != nil {
			return nil, err
		}
	}
	return storage.Open(ctx, dsn, rootOpts.Logger)
}

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage vault accounts",
	}
	cmd.AddCommand(newUserRegisterCommand(rootOpts))
	cmd.AddCommand(newUserTokenCommand(rootOpts))
	return cmd
}

func newUserRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.source(cmd).read("Account password")
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			users := vault.NewUsers(db, nil, vault.Options{Logger: rootOpts.Logger})
			u, err := users.Register(cmd.Context(), name, opts.email, password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", u.Email, u.ID)
			return err
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Authenticate and print a token pair",
		Long: `Authenticate and print an access and refresh token pair as JSON.

Signing keys are generated per process, so the tokens only validate against
the process that issued them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.source(cmd).read("Account password")
			if err != nil {
				return err
			}

			db, err := openDatabase(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			keys, err := auth.NewKeyManager(rootOpts.Config.KeySettings(), rootOpts.Logger)
			if err != nil {
				return err
			}
			users := vault.NewUsers(db, keys, vault.Options{Logger: rootOpts.Logger})
			pair, err := users.Login(cmd.Context(), opts.email, password)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(pair)
		},
	}
	opts.bind(cmd)

	return cmd
}

// loginSession is an authenticated account with a login service on an open
// database.
type loginSession struct {
	db      *sql.DB
	user    *models.User
	logins  *vault.Service[models.Login, *models.Login]
	secrets passwordSource
}

func (s *loginSession) Close() error { return s.db.Close() }

// startLoginSession reads the account password, opens the database and
// authenticates opts.email.
func startLoginSession(cmd *cobra.Command, rootOpts *RootOptions, opts *accountOptions) (*loginSession, error) {
	secrets := opts.source(cmd)
	password, err := secrets.read("Account password")
	if err != nil {
		return nil, err
	}

	db, err := openDatabase(cmd.Context(), rootOpts)
	if err != nil {
		return nil, err
	}

	vopts := vault.Options{Logger: rootOpts.Logger}
	user, err := vault.NewUsers(db, nil, vopts).Authenticate(cmd.Context(), opts.email, password)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &loginSession{
		db:      db,
		user:    user,
		logins:  vault.NewService[models.Login](db, vopts),
		secrets: secrets,
	}, nil
}

// NewLoginCommand creates the login command group for stored credentials.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Manage stored website and application logins",
		Long: `Manage stored website and application logins.

With --password-stdin the account password is read from the first line of
stdin, the master password from the second and, for add, the stored
password from the third.`,
	}
	cmd.AddCommand(newLoginAddCommand(rootOpts))
	cmd.AddCommand(newLoginListCommand(rootOpts))
	cmd.AddCommand(newLoginShowCommand(rootOpts))
	cmd.AddCommand(newLoginDeleteCommand(rootOpts))
	return cmd
}

func newLoginAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}
	var url, note string

	cmd := &cobra.Command{
		Use:   "add <name> <username>",
		Short: "Store a login",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startLoginSession(cmd, rootOpts, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			master, err := s.secrets.read("Master password")
			if err != nil {
				return err
			}
			secret, err := s.secrets.optional("Login password")
			if err != nil {
				return err
			}

			rec := &models.Login{Name: args[0], Username: args[1], Password: secret}
			if url != "" {
				rec.URL = &url
			}
			if note != "" {
				rec.Note = &note
			}
			rec, err = s.logins.Add(cmd.Context(), rec, s.user.ID, master)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return err
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVar(&url, "url", "", "site address")
	cmd.Flags().StringVar(&note, "note", "", "free text note")

	return cmd
}

func newLoginListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}
	var queryPath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored logins",
		Long: `List stored logins as id, name, username and url columns.

--query narrows the listing with a JSON query document, as accepted by
compile. Passwords stay sealed and are not printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query.New().Order("name", query.Asc).Build()
			if queryPath != "" {
				data, err := os.ReadFile(queryPath)
				if err != nil {
					return fmt.Errorf("read query: %w", err)
				}
				if q, err = query.Parse(data); err != nil {
					return err
				}
			}

			s, err := startLoginSession(cmd, rootOpts, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.logins.List(cmd.Context(), q, s.user.ID)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tUSERNAME\tURL")
			for _, rec := range recs {
				url := ""
				if rec.URL != nil {
					url = *rec.URL
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.ID, rec.Name, rec.Username, url)
			}
			return w.Flush()
		},
	}
	opts.bind(cmd)
	cmd.Flags().StringVarP(&queryPath, "query", "q", "", "JSON query document file")

	return cmd
}

func newLoginShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print a stored login with its secrets opened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startLoginSession(cmd, rootOpts, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			master, err := s.secrets.read("Master password")
			if err != nil {
				return err
			}
			rec, err := s.logins.Fetch(cmd.Context(), args[0], s.user.ID, master)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		},
	}
	opts.bind(cmd)

	return cmd
}

func newLoginDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &accountOptions{}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a stored login",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startLoginSession(cmd, rootOpts, opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.logins.Remove(cmd.Context(), args[0], s.user.ID); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
	opts.bind(cmd)

	return cmd
}
