package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show storage statistics",
	Long:  `Show conversation and message counts, the estimated content size, and the on-disk database size.`,
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		stats := a.service.Stats()

		fmt.Println(headerStyle.Render("Storage"))
		fmt.Printf("%s %s\n", titleStyle.Render("Conversations:"), countStyle.Render(fmt.Sprintf("%d", stats.ConversationCount)))
		fmt.Printf("%s %s\n", titleStyle.Render("Messages:     "), countStyle.Render(fmt.Sprintf("%d", stats.MessageCount)))
		fmt.Printf("%s %s\n", titleStyle.Render("Content size: "), stats.EstimatedSize)

		if size, err := a.database.SizeBytes(); err == nil {
			fmt.Printf("%s %.2f KB\n", titleStyle.Render("File size:    "), float64(size)/1024)
		}

		return nil
	}),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
