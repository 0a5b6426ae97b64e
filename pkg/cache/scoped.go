package cache

// ScopedKeyer wraps a Keyer with a prefix, so several tools or model versions
// can share one backend without colliding:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
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

// ModelKey generates a prefixed key for compiled models.
func (k *ScopedKeyer) ModelKey(param string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(param, opts)
}

// DrawingKey generates a prefixed key for drawings.
func (k *ScopedKeyer) DrawingKey(layoutHash string, opts DrawingKeyOpts) string {
	return k.prefix + k.inner.DrawingKey(layoutHash, opts)
}
