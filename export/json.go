package export

import (
	"encoding/json"
	"io"
	"time"

	"moltstore/store"
)

// JSONExporter exports conversations as indented JSON
type JSONExporter struct{}

type jsonEnvelope struct {
	Metadata     map[string]string   `json:"metadata"`
	Conversation *store.Conversation `json:"conversation"`
}

// Export writes the conversation wrapped in an envelope with export metadata
func (e *JSONExporter) Export(conv *store.Conversation, w io.Writer) error {
	envelope := jsonEnvelope{
		Metadata: map[string]string{
			"export_version": "1.0",
			"export_date":    time.Now().Format(time.RFC3339),
		},
		Conversation: conv,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
