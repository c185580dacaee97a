package memory

// Middleware wraps a Memory to observe or alter its operations. Middlewares
// are applied outermost-first: the first middleware passed to [Chain] is the
// outermost wrapper, i.e. the first to see each call.
type Middleware func(next Memory) Memory

// Chain applies middlewares to m in reverse order so that middlewares[0]
// becomes the outermost wrapper. With no middlewares it returns m unchanged.
func Chain(m Memory, middlewares ...Middleware) Memory {
	for i := len(middlewares) - 1; i >= 0; i-- {
		m = middlewares[i](m)
	}
	return m
}
