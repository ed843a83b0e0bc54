package model

// Decorator enriches a render context with additional values after the
// canonical dataset-derived structure has been assembled.
type Decorator interface {
	Decorate(RenderContext) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(RenderContext) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(ctx RenderContext) error {
	return fn(ctx)
}
