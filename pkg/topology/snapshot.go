package topology

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/svcmap/pkg/errors"
)

// Snapshot is one full topology delivered by the data layer. It replaces the
// previous snapshot entirely.
type Snapshot struct {
	Services []Service `json:"services" yaml:"services"`
	Links    []Link    `json:"links" yaml:"links"`
}

// Normalize fills in derivable data in place:
//   - links without an id get a name-based UUID derived from their
//     endpoints and position, so the same input always yields the same ids
//   - link endpoints not listed in Services are appended as bare services,
//     in sorted order
func (s *Snapshot) Normalize() {
	known := make(map[string]struct{}, len(s.Services))
	for _, svc := range s.Services {
		known[svc.ID] = struct{}{}
	}

	var missing []string
	for i := range s.Links {
		l := &s.Links[i]
		if l.ID == "" {
			name := fmt.Sprintf("%s->%s:%d#%d", l.SourceID, l.DestinationID, l.DestinationPort, i)
			l.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
		}
		for _, id := range []string{l.SourceID, l.DestinationID} {
			if _, ok := known[id]; !ok && id != "" {
				known[id] = struct{}{}
				missing = append(missing, id)
			}
		}
	}
	slices.Sort(missing)
	for _, id := range missing {
		s.Services = append(s.Services, Service{ID: id})
	}
}

// Validate checks identifiers, ports and verdicts. It returns an
// INVALID_TOPOLOGY error describing the first problem found.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Services))
	for _, svc := range s.Services {
		if err := errors.ValidateID("service", svc.ID); err != nil {
			return err
		}
		if _, dup := seen[svc.ID]; dup {
			return errors.New(errors.ErrCodeInvalidTopology, "duplicate service id %q", svc.ID)
		}
		seen[svc.ID] = struct{}{}
	}
	for _, l := range s.Links {
		if err := errors.ValidateID("link", l.ID); err != nil {
			return err
		}
		if err := errors.ValidateID("link source", l.SourceID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTopology, err, "link %s", l.ID)
		}
		if err := errors.ValidateID("link destination", l.DestinationID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTopology, err, "link %s", l.ID)
		}
		if err := errors.ValidatePort(l.DestinationPort); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTopology, err, "link %s", l.ID)
		}
		if l.Verdict != "" && !l.Verdict.Valid() {
			return errors.New(errors.ErrCodeInvalidTopology, "link %s has unknown verdict %q", l.ID, l.Verdict)
		}
	}
	return nil
}

// ServiceMap returns the services keyed by id.
func (s Snapshot) ServiceMap() map[string]Service {
	out := make(map[string]Service, len(s.Services))
	for _, svc := range s.Services {
		out[svc.ID] = svc
	}
	return out
}

// Connections builds the connections graph over the folded links.
func (s Snapshot) Connections() *Connections {
	return BuildConnections(FoldLinks(s.Links))
}

// ReadJSON decodes a JSON snapshot from r, normalizes and validates it.
//
//	{
//	  "services": [{"id": "web", "labels": ["k8s:app=web"]}],
//	  "links": [{"sourceId": "web", "destinationId": "db", "destinationPort": 5432}]
//	}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json snapshot")
	}
	return finish(&s)
}

// ReadYAML decodes a YAML snapshot from r, normalizes and validates it.
// Field names match the JSON form.
func ReadYAML(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.NewDecoder(r).Decode(&s); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml snapshot")
	}
	return finish(&s)
}

func finish(s *Snapshot) (*Snapshot, error) {
	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ImportSnapshot reads the snapshot file at path. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func ImportSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

// WriteJSON encodes s as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(s *Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes s as YAML.
func WriteYAML(s *Snapshot, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportSnapshot writes s to path, choosing the format from the extension
// like [ImportSnapshot].
func ExportSnapshot(s *Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return WriteYAML(s, f)
	default:
		return WriteJSON(s, f)
	}
}
