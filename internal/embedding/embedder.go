package embedding

// Embedder converts free text into a fixed-dimension numeric vector.
// Implementations may require a preparation phase over the corpus before
// embedding; remote implementations treat Prepare as a no-op.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}
