package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dto-services/internal/analyze"
	"dto-services/internal/report"
)

func newInspectCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "inspect <packages...>",
		Short: "Check DTO links in Go source",
		Long: `Load packages from source and check every struct that embeds entity.Link:
which entity it targets and how each DTO field pairs with an entity field.

Load the entity packages too, otherwise their fields are unknown.`,
		Example: `  # Check the bundled bookstore domain
  dto-services inspect dto-services/store

  # As YAML
  dto-services inspect ./... -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp(cmd.Context())

			graph, err := analyze.NewAnalyzer(analyze.WithDir(dir)).LoadPackages(args...)
			if err != nil {
				return err
			}

			r := report.Static(graph, a.nameMode())
			a.logger.Debug("packages inspected", "packages", len(graph.Packages), "links", len(r.Links))

			if err := report.Write(cmd.OutOrStdout(), a.output, r); err != nil {
				return err
			}

			if r.Diagnostics.HasErrors() {
				return fmt.Errorf("inspect found %d error(s)", len(r.Diagnostics.Errors))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory packages are resolved from")

	return cmd
}
