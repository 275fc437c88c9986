package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored conversations",
	Long:  `List all conversations in the store with decrypted titles, most recently updated first.`,
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		conversations := a.service.LoadAll()
		if len(conversations) == 0 {
			fmt.Println(headerStyle.Render("No conversations found"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d conversation(s)", len(conversations))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)
		_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Updated")+"\t")

		for _, conv := range conversations {
			title := conv.Title
			if len([]rune(title)) > 50 {
				title = string([]rune(title)[:47]) + "..."
			}
			if conv.IsPinned {
				title = "📌 " + title
			}

			shortID := conv.ID
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
				idStyle.Render(shortID),
				title,
				countStyle.Render(strconv.Itoa(len(conv.Messages))),
				dateStyle.Render(formatWhen(conv.UpdatedAt)),
			)
		}

		return w.Flush()
	}),
}

// formatWhen renders a timestamp relative to its age, the way chat sidebars do.
func formatWhen(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
