package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var wipeYes bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all stored conversations and messages",
	Long:  `Delete every conversation and message. This cannot be undone.`,
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		if !wipeYes {
			return fmt.Errorf("refusing to wipe without --yes")
		}

		if err := a.service.ClearAll(); err != nil {
			return err
		}

		fmt.Println(headerStyle.Render("All conversations deleted"))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(wipeCmd)
	wipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "Confirm the wipe")
}
