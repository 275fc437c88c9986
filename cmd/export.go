package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"moltstore/export"
)

var (
	exportFormat string
	exportDir    string
)

var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation to a file",
	Long: `Export one conversation, decrypted, to JSON, Markdown, or YAML.
The output filename is derived from the conversation title.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		conv, err := a.service.LoadConversation(args[0])
		if err != nil {
			return err
		}

		exporter, err := export.ForFormat(exportFormat)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportDir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}

		path := filepath.Join(exportDir, export.Filename(conv.Title, exporter))
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create export file: %w", err)
		}
		defer file.Close()

		if err := exporter.Export(conv, file); err != nil {
			return fmt.Errorf("failed to export conversation: %w", err)
		}

		fmt.Println(headerStyle.Render("Exported to " + path))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, markdown, yaml)")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "Directory to write the export into")
}
