package content

import "context"

// Chain chains together a set of transformers, failing fast if any
// transformer in the chain errors or the context is done between stages.
func Chain(transformers ...Transformer) TransformerFunc {
	return func(ctx context.Context, input []byte) ([]byte, error) {
		var err error
		for _, transformer := range transformers {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			input, err = transformer.Transform(ctx, input)
			if err != nil {
				return nil, err
			}
		}
		return input, nil
	}
}
