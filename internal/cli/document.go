package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/flowgridhq/flowgrid/pkg/flow"
	"github.com/flowgridhq/flowgrid/pkg/store"
)

// Document is the graph JSON interchange format the CLI reads: raw node and
// edge descriptions, normalized by the engine on load.
type Document struct {
	Nodes []flow.NodePatch `json:"nodes"`
	Edges []flow.EdgePatch `json:"edges"`
}

// loadDocument reads and decodes a graph JSON document.
func loadDocument(path string) (Document, error) {
	var doc Document

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read document %q: %w", path, err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse document %q: %w", path, err)
	}
	return doc, nil
}

// storeFromDocument loads a document into a fresh standalone instance
// configured from cfg.
func storeFromDocument(path string, cfg Config, logger *log.Logger) (*store.Store, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	opts.Nodes = doc.Nodes
	opts.Edges = doc.Edges
	opts.Logger = logger

	return store.New(opts), nil
}
