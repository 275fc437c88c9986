package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pruneDays int

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete conversations older than the retention window",
	Long: `Delete conversations not updated within the given number of days,
along with their messages. Without --days the retention window from the
config file is used; a window of zero means nothing is pruned.`,
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		days := pruneDays
		if days == 0 {
			days = a.cfg.Data.RetentionDays
		}
		if days <= 0 {
			fmt.Println(headerStyle.Render("Retention is disabled, nothing to prune"))
			return nil
		}

		removed, err := a.service.PruneOlderThan(days)
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Pruned %d conversation(s) older than %d days", removed, days)))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().IntVarP(&pruneDays, "days", "d", 0, "Retention window in days (overrides config)")
}
