package internal

import "fmt"

type pipe struct {
	directive Directive
	mw        Middleware
}

// Pipeline runs a request through middleware in order. Each middleware
// receives a continuation to the rest of the chain.
type Pipeline struct {
	aliases  map[string]MiddlewareFactory
	resolver Resolver
	pipes    []pipe
	ctx      Context
}

// NewPipeline creates a pipeline that resolves directive names via aliases.
func NewPipeline(aliases map[string]MiddlewareFactory, resolver Resolver) *Pipeline {
	return &Pipeline{aliases: aliases, resolver: resolver}
}

// Send sets the context passed through the pipeline.
func (p *Pipeline) Send(c Context) *Pipeline {
	p.ctx = c
	return p
}

// Through appends directive strings ("name:args|except").
func (p *Pipeline) Through(directives ...string) *Pipeline {
	for _, d := range directives {
		p.pipes = append(p.pipes, pipe{directive: ParseDirective(d)})
	}
	return p
}

// Pipe appends middleware instances.
func (p *Pipeline) Pipe(mws ...Middleware) *Pipeline {
	for _, mw := range mws {
		p.pipes = append(p.pipes, pipe{directive: Directive{Name: fmt.Sprintf("%T", mw)}, mw: mw})
	}
	return p
}

// Len returns the number of queued pipes.
func (p *Pipeline) Len() int {
	return len(p.pipes)
}

// Run executes the pipeline with the shared response as the final step.
func (p *Pipeline) Run() (*Response, error) {
	return p.Then(func(c Context) (*Response, error) {
		return c.Response(), nil
	})
}

// Then executes the pipeline and calls final after the last middleware.
// The queue is cleared afterwards.
func (p *Pipeline) Then(final Next) (*Response, error) {
	defer func() { p.pipes = nil }()
	return p.next(0, final)(p.ctx)
}

func (p *Pipeline) next(i int, final Next) Next {
	return func(c Context) (*Response, error) {
		if i >= len(p.pipes) {
			return final(c)
		}
		current := p.pipes[i]
		if current.directive.Skips(c.Action()) {
			return p.next(i+1, final)(c)
		}

		mw, err := p.instantiate(current)
		if err != nil {
			return nil, err
		}

		out, err := mw.Handle(c, p.next(i+1, final), current.directive.Args...)
		if err != nil {
			return nil, err
		}
		if IsResponse(out) {
			return out.(*Response), nil
		}

		// Any other value short-circuits the chain.
		res := c.Response()
		if err := res.SetContent(out); err != nil {
			return nil, err
		}
		if err := res.Send(); err != nil {
			return nil, err
		}
		return res, nil
	}
}

func (p *Pipeline) instantiate(pp pipe) (Middleware, error) {
	if pp.mw != nil {
		return pp.mw, nil
	}
	factory, ok := p.aliases[pp.directive.Name]
	if !ok {
		return nil, &MiddlewareNotFoundError{Name: pp.directive.Name}
	}
	mw, err := factory(p.resolver)
	if err != nil {
		return nil, fmt.Errorf("waypoint: middleware [%s]: %w", pp.directive.Name, err)
	}
	return mw, nil
}
