// Package export renders decrypted conversations to portable formats.
// Exporters work on plaintext conversations handed over by the persistence
// service, so exported files are readable without the encryption key.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"moltstore/store"
)

// Exporter renders one conversation to a writer.
type Exporter interface {
	Export(conv *store.Conversation, w io.Writer) error
	Extension() string
}

// ForFormat returns the exporter for a format name.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONExporter{}, nil
	case "markdown", "md":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// Filename builds an export filename from the conversation title: filesystem
// metacharacters replaced, truncated, timestamped, with the exporter's
// extension.
func Filename(title string, exporter Exporter) string {
	sanitized := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|' {
			return '_'
		}
		return r
	}, title)

	runes := []rune(sanitized)
	if len(runes) > 50 {
		sanitized = string(runes[:50])
	}
	if sanitized == "" {
		sanitized = "conversation"
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", sanitized, timestamp, exporter.Extension())
}
