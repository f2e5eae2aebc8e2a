package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dto-services/persist/sqlstore"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the sqlite schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := getApp(cmd.Context())
			ctx := cmd.Context()

			s, err := sqlstore.Open(ctx, a.cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			version, err := sqlstore.Version(ctx, s.DB())
			if err != nil {
				return err
			}

			a.logger.Info("schema migrated", "dsn", a.cfg.Store.DSN, "version", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is at schema version %d\n", a.cfg.Store.DSN, version)

			return nil
		},
	}
}
