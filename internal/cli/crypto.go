package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophvault/internal/cryptox"
)

type cryptoOptions struct {
	passwordStdin bool
}

// NewEncryptCommand creates the encrypt command.
func NewEncryptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cryptoOptions{}

	cmd := &cobra.Command{
		Use:   "encrypt [plaintext]",
		Short: "Seal a secret under a master password",
		Long: `Seal a secret under a master password and print the encoded blob.

Without an argument the plaintext is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrypto(cmd, args, opts, cryptox.Encrypt)
		},
	}
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "read the master password from the first line of stdin")

	return cmd
}

// NewDecryptCommand creates the decrypt command.
func NewDecryptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cryptoOptions{}

	cmd := &cobra.Command{
		Use:   "decrypt [blob]",
		Short: "Open a sealed secret",
		Long: `Open a blob produced by encrypt and print the plaintext.

Without an argument the blob is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCrypto(cmd, args, opts, cryptox.Decrypt)
			if errors.Is(err, cryptox.ErrDecryption) {
				rootOpts.Logger.Warn(cmd.Context(), "secret could not be opened")
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "read the master password from the first line of stdin")

	return cmd
}

func runCrypto(cmd *cobra.Command, args []string, opts *cryptoOptions, op func(data, password string) (string, error)) error {
	if opts.passwordStdin && len(args) == 0 {
		return errors.New("--password-stdin needs the input as an argument")
	}

	input, err := readInput(args, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	password, err := newPasswordSource(opts.passwordStdin, cmd.InOrStdin(), cmd.ErrOrStderr()).read("Master password")
	if err != nil {
		return err
	}

	out, err := op(input, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
