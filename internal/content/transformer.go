package content

import "context"

// Transformer modifies a markup document, returning modified markup or an
// error.
type Transformer interface {
	// Transform modifies input, returning modified markup or an error.
	Transform(ctx context.Context, input []byte) ([]byte, error)
}

// TransformerFunc is a [Transformer] that can be represented just by the
// [Transformer.Transform] method.
type TransformerFunc func(ctx context.Context, input []byte) ([]byte, error)

// Transform satisfies [Transformer].
func (fn TransformerFunc) Transform(ctx context.Context, input []byte) ([]byte, error) {
	return fn(ctx, input)
}
