package cache

// ScopedKeyer wraps a Keyer with a prefix so multiple projects can share
// one cache backend (typically Redis) without key collisions.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key. A nil
// inner keyer defaults to the standard one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// EdgeSetKey implements Keyer.
func (k *ScopedKeyer) EdgeSetKey(sourceFingerprint string, opts EdgeSetKeyOpts) string {
	return k.prefix + k.inner.EdgeSetKey(sourceFingerprint, opts)
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(edgeSetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(edgeSetHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
