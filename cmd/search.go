package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchConversation string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search message content",
	Long: `Search messages whose content contains every word of the query,
case-insensitively. Matching runs against the plaintext search index, so it
works without decrypting the whole corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: runWithApp(func(a *app, cmd *cobra.Command, args []string) error {
		results := a.service.SearchMessages(args[0], searchConversation)
		if len(results) == 0 {
			fmt.Println(headerStyle.Render("No matches"))
			return nil
		}

		fmt.Println(headerStyle.Render(fmt.Sprintf("%d match(es)", len(results))))
		fmt.Println()

		for _, hit := range results {
			content := strings.Join(strings.Fields(hit.Content), " ")
			if len([]rune(content)) > 120 {
				content = string([]rune(content)[:117]) + "..."
			}

			fmt.Printf("%s %s %s\n",
				titleStyle.Render(hit.ConversationTitle),
				idStyle.Render("("+hit.Role+")"),
				dateStyle.Render(hit.Timestamp.Format("2006-01-02 15:04")),
			)
			fmt.Printf("  %s\n\n", content)
		}

		return nil
	}),
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchConversation, "conversation", "c", "", "Limit the search to one conversation ID")
}
