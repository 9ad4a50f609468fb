package cache

// FrameKeyOpts holds the inputs, besides the snapshot, that change a frame.
type FrameKeyOpts struct {
	ConfigHash   string `json:"config"`
	DefaultSizes bool   `json:"default_sizes"`
}

// ArtifactKeyOpts identifies one rendering of a frame.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Style  string `json:"style,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	FrameKey(snapshotHash string, opts FrameKeyOpts) string
	ArtifactKey(frameHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key inputs under a fixed prefix per entry type.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:<sha256>" over the snapshot hash and options.
func (DefaultKeyer) FrameKey(snapshotHash string, opts FrameKeyOpts) string {
	return hashKey("frame", snapshotHash, opts)
}

// ArtifactKey returns "artifact:<sha256>" over the frame hash and options.
func (DefaultKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", frameHash, opts)
}

var _ Keyer = DefaultKeyer{}
