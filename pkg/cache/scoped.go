package cache

// ScopedKeyer wraps a Keyer with a prefix, so several deployments can share
// one redis without their keys colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "svcmap:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(snapshotHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(snapshotHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(frameHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(frameHash, opts)
}
