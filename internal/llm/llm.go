package llm

import "context"

// Generator is the provider boundary. Implementations perform exactly one network call per Generate.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type GeneratorFunc func(ctx context.Context, req Request) (*Response, error)

func (f GeneratorFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}
