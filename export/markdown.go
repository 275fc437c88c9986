package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"moltstore/store"
)

// MarkdownExporter exports conversations as human-readable Markdown
type MarkdownExporter struct{}

// Export writes the conversation as a Markdown document
func (e *MarkdownExporter) Export(conv *store.Conversation, w io.Writer) error {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", conv.Title))
	if conv.Model != "" {
		sb.WriteString(fmt.Sprintf("**Model**: %s\n\n", conv.Model))
	}
	sb.WriteString(fmt.Sprintf("**Created**: %s\n", conv.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("**Updated**: %s\n\n", conv.UpdatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString("---\n\n")

	// Messages
	for i, msg := range conv.Messages {
		roleIcon := "👤"
		roleName := "User"
		switch msg.Role {
		case store.RoleAssistant:
			roleIcon = "🤖"
			roleName = "Assistant"
		case store.RoleSystem:
			roleIcon = "⚙️"
			roleName = "System"
		}

		sb.WriteString(fmt.Sprintf("## %s %s\n\n", roleIcon, roleName))

		if msg.ModelUsed != "" {
			sb.WriteString(fmt.Sprintf("*%s*\n\n", msg.ModelUsed))
		}

		if msg.ThinkingContent != "" {
			sb.WriteString("<details>\n<summary>Thinking</summary>\n\n")
			sb.WriteString(msg.ThinkingContent)
			sb.WriteString("\n\n</details>\n\n")
		}

		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")

		if i < len(conv.Messages)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported: %s*\n", time.Now().Format("2006-01-02 15:04:05")))

	_, err := io.WriteString(w, sb.String())
	return err
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
