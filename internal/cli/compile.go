package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/gophvault/internal/query"
	"github.com/dmitrijs2005/gophvault/internal/sqlbuilder"
)

type compileOptions struct {
	table  string
	asJSON bool
}

// CompileResult is the JSON output of compile --json.
type CompileResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Use:   "compile <query.json|->",
		Short: "Compile a query document to SQL",
		Long: `Compile a JSON query document against a table.

Prints the SQL statement on the first line and the bound parameters as a
JSON array on the second. Pass - to read the document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, rootOpts, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.table, "table", "t", "", "table to select from")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print a single JSON object instead")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runCompile(cmd *cobra.Command, rootOpts *RootOptions, opts *compileOptions, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read query: %w", err)
	}

	q, err := query.Parse(data)
	if err != nil {
		return err
	}

	var bopts []sqlbuilder.Option
	if rootOpts.Config.StandardGlue {
		bopts = append(bopts, sqlbuilder.WithStandardGlue())
	}
	stmt, params, err := sqlbuilder.Build(opts.table, q, bopts...)
	if err != nil {
		return err
	}
	if params == nil {
		params = []any{}
	}
	rootOpts.Logger.Debug(cmd.Context(), "query compiled", "table", opts.table, "params", len(params))

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		return enc.Encode(CompileResult{SQL: stmt, Params: params})
	}

	p, err := json.Marshal(params)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "%s\n%s\n", stmt, p)
	return err
}
