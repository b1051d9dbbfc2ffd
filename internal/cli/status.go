package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Connect to every configured connection and print its capabilities",
		Example: `  # Check connections from the environment
  conduit status

  # Load a specific env file
  conduit status --env-file .env.local`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, cfg, err := flags.openManager(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Environment: %s\n\n", cfg.App.Env)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CONNECTION\tDRIVER\tCONNECTED\tCAPABILITIES\tDEFAULT")
			for _, name := range m.Connections() {
				a, err := m.Adapter(name)
				if err != nil {
					return err
				}
				def := ""
				if name == m.DefaultConnection() {
					def = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", name, a.Driver(), a.IsConnected(), a.Capabilities(), def)
			}
			return w.Flush()
		},
	}
}
