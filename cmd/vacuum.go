package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vacuumCmd = &cobra.Command{
	Use:   "vacuum",
	Short: "Compact the database file",
	Long:  `Rebuild the database file to reclaim space left behind by deleted conversations.`,
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		before, err := a.database.SizeBytes()
		if err != nil {
			return err
		}

		if err := a.database.Vacuum(); err != nil {
			return err
		}

		after, err := a.database.SizeBytes()
		if err != nil {
			return err
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Compacted %.2f KB to %.2f KB", float64(before)/1024, float64(after)/1024)))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(vacuumCmd)
}
