package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DefaultMigrationTable migration bookkeeping tablosunun varsayılan adıdır.
const DefaultMigrationTable = "migrations"

func newInstallCmd(flags *globalFlags) *cobra.Command {
	var (
		table       string
		connections []string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Create the migration bookkeeping table",
		Long: `Create the migration bookkeeping table (id, name, batch, checksum, type, appliedAt)
on the selected connections. Existing tables are left untouched.`,
		Example: `  # Default connection
  conduit install

  # Every SQL connection, custom table name
  conduit install --connection primary --connection reporting --table schema_migrations`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, _, err := flags.openManager(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			targets := connections
			if len(targets) == 0 {
				targets = []string{m.DefaultConnection()}
			}

			for _, name := range targets {
				schema, err := m.Schema(name)
				if err != nil {
					return err
				}
				existed, err := schema.TableExists(cmd.Context(), table)
				if err != nil {
					return fmt.Errorf("connection %q: %w", name, err)
				}
				if err := schema.CreateMigrationSchema(cmd.Context(), table); err != nil {
					return fmt.Errorf("connection %q: %w", name, err)
				}

				status := "created"
				if existed {
					status = "already present"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %s\n", name, table, status)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&table, "table", DefaultMigrationTable, "migration table name")
	f.StringSliceVar(&connections, "connection", nil, "connections to install on (default: the default connection)")
	return cmd
}
