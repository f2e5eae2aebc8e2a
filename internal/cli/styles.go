package cli

import (
	"github.com/spf13/cobra"

	"dto-services/internal/report"
	"dto-services/store"
)

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "Show the construction style decided for each bundled DTO",
		Long: `Register every DTO of the bundled bookstore domain and show the style,
save plan and update plan the registry decided for it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())

			reg := a.registry()
			st := reg.RegisterAll(store.DtoTypes()...)
			a.logger.Info(st.Message, "valid", st.IsValid())

			return report.Write(cmd.OutOrStdout(), a.output, report.Registry(reg))
		},
	}
}
