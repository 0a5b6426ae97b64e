package cache

// Artifact kinds, used as the key prefix.
const (
	kindModel   = "model"
	kindDrawing = "drawing"
)

// ModelKeyOpts are the inputs besides the stack that change a compiled model.
type ModelKeyOpts struct {
	Format     string `json:"format"`
	SourceHash string `json:"source_hash"`
}

// DrawingKeyOpts are the inputs besides the layout that change a drawing.
type DrawingKeyOpts struct {
	Format string  `json:"format"`
	GapMM  float64 `json:"gap_mm,omitempty"`
	Title  string  `json:"title,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ModelKey keys a compiled stack by its compiler parameter.
	ModelKey(param string, opts ModelKeyOpts) string
	// DrawingKey keys a 2D drawing by a hash of its layout.
	DrawingKey(layoutHash string, opts DrawingKeyOpts) string
}

// DefaultKeyer hashes all key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ModelKey implements Keyer.
func (DefaultKeyer) ModelKey(param string, opts ModelKeyOpts) string {
	return hashKey(kindModel, param, opts)
}

// DrawingKey implements Keyer.
func (DefaultKeyer) DrawingKey(layoutHash string, opts DrawingKeyOpts) string {
	return hashKey(kindDrawing, layoutHash, opts)
}
