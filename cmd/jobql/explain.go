package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rpattn/jobql/internal/db"
	"github.com/rpattn/jobql/internal/domain"
	"github.com/rpattn/jobql/internal/filter"
	"github.com/rpattn/jobql/internal/jobs"
	"github.com/rpattn/jobql/internal/repository"
)

var explainCmd = &cobra.Command{
	Use:   "explain FILTER",
	Short: "Show how a filter parses and the SQL it compiles to",
	Example: `  jobql explain 'job_type=full-time AND languages HAS_ANY (PHP,Go)'
  jobql explain --attribute years_experience=number 'attribute:years_experience>=3'
  jobql explain --db 'attribute:joining_availability IN (immediately)'`,
	Args: cobra.ExactArgs(1),
	RunE: explainRunE,
}

var explainArgs struct {
	attributes []string
	useDB      bool
	asJSON     bool
}

func init() {
	explainCmd.Flags().StringArrayVarP(&explainArgs.attributes, "attribute", "a", nil, "Attribute definition NAME=TYPE for offline use (repeatable)")
	explainCmd.Flags().BoolVar(&explainArgs.useDB, "db", false, "Resolve attributes from the database")
	explainCmd.Flags().BoolVar(&explainArgs.asJSON, "json", false, "Print JSON instead of text")
	rootCmd.AddCommand(explainCmd)
}

func explainRunE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	mode, err := cfg.Filter.CompileMode()
	if err != nil {
		return err
	}
	registry := cfg.Filter.Registry()

	static, err := parseAttributeFlags(explainArgs.attributes)
	if err != nil {
		return err
	}
	if explainArgs.useDB {
		conn, err := db.NewConnection(ctx, cfg.Database)
		if err != nil {
			return errors.Wrap(err, "connect to database")
		}
		defer conn.Close()
		stored, err := storedAttributes(ctx, repository.NewAttributeRepository(conn.Pool), static)
		if err != nil {
			return err
		}
		static = stored
	}

	compiler := filter.NewCompiler(static,
		filter.WithRegistry(registry),
		filter.WithMode(mode),
		filter.WithLogger(logger.Named("filter")),
	)
	out, err := jobs.Explain(ctx, compiler, registry, args[0])
	if err != nil {
		return err
	}
	return printExplanation(cmd.OutOrStdout(), out, explainArgs.asJSON)
}

// parseAttributeFlags turns NAME=TYPE pairs into a static lookup. IDs are derived
// from the name so output is stable between runs.
func parseAttributeFlags(values []string) (filter.StaticAttributes, error) {
	static := filter.StaticAttributes{}
	for _, v := range values {
		name, typ, ok := strings.Cut(v, "=")
		name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
		if !ok || name == "" || typ == "" {
			return nil, errors.Newf("invalid --attribute %q, want NAME=TYPE", v)
		}
		attrType := domain.AttributeType(typ)
		column, err := attrType.Column()
		if err != nil {
			return nil, errors.Wrapf(err, "--attribute %s", name)
		}
		static[name] = domain.AttributeDefinition{
			ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("jobql/attribute/"+name)),
			Name: name,
			Type: domain.AttributeType(column),
		}
	}
	return static, nil
}

// storedAttributes loads every attribute definition from repo. Definitions given
// with --attribute take precedence over stored ones.
func storedAttributes(ctx context.Context, repo repository.AttributeRepository, overrides filter.StaticAttributes) (filter.StaticAttributes, error) {
	defs, err := repo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load attribute definitions")
	}
	out := make(filter.StaticAttributes, len(defs)+len(overrides))
	for _, def := range defs {
		out[def.Name] = def
	}
	for name, def := range overrides {
		out[name] = def
	}
	return out, nil
}

func printExplanation(w io.Writer, out jobs.Explanation, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	args := make([]string, len(out.Args))
	for i, a := range out.Args {
		args[i] = fmt.Sprintf("$%d=%v", i+1, a)
	}
	_, err := fmt.Fprintf(w, "expression: %s\npredicate:  %s\nsql:        %s\nargs:       %s\n",
		out.Expression, out.Predicate, out.SQL, strings.Join(args, " "))
	return err
}
