package cli

import (
	"bytes"
	"io"

	"github.com/matzehuels/svcmap/pkg/errors"
	"github.com/matzehuels/svcmap/pkg/topology"
)

// stdinArg is the path argument that reads the snapshot from stdin.
const stdinArg = "-"

// readSnapshot loads a snapshot from path, or from stdin when path is "-".
// Stdin input starting with '{' is decoded as JSON, anything else as YAML.
func readSnapshot(path string, stdin io.Reader) (*topology.Snapshot, error) {
	if path != stdinArg {
		return topology.ImportSnapshot(path)
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return topology.ReadJSON(bytes.NewReader(data))
	}
	return topology.ReadYAML(bytes.NewReader(data))
}
