package output

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cjatools/cjadrift/pkg/types"
)

// JSONWriter emits the result model as an indented JSON document. Change
// types serialize as their string values ("added", "modified", ...).
type JSONWriter struct{}

func (jw *JSONWriter) Write(result *types.DiffResult, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// YAMLWriter emits the result model as YAML.
type YAMLWriter struct{}

func (yw *YAMLWriter) Write(result *types.DiffResult, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	return encoder.Encode(result)
}
