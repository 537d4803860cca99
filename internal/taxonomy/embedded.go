package taxonomy

import (
	"context"
	_ "embed"
)

//go:embed data/default.yaml
var defaultYAML []byte

// EmbeddedSource serves the taxonomy compiled into the binary. Used when no
// external taxonomy file is configured.
type EmbeddedSource struct{}

// Load parses the embedded default taxonomy.
func (EmbeddedSource) Load(_ context.Context) (*Taxonomy, error) {
	return parseYAML(defaultYAML)
}
