package engine

import "github.com/username/imecore/internal/composition"

// Processor consumes one key event against ctx, reporting whether it
// recognized the key (spec §4.J). Accepted/Rejected stop the pipeline;
// Noop lets the next Processor try.
type Processor interface {
	Name() string
	Process(ctx *composition.Context, event KeyEvent) ProcessStatus
}

// ProcessorFunc adapts a plain function to the Processor interface for
// small, stateless processors.
type ProcessorFunc struct {
	name string
	fn   func(ctx *composition.Context, event KeyEvent) ProcessStatus
}

// NewProcessorFunc builds a Processor from a function.
func NewProcessorFunc(name string, fn func(ctx *composition.Context, event KeyEvent) ProcessStatus) *ProcessorFunc {
	return &ProcessorFunc{name: name, fn: fn}
}

func (p *ProcessorFunc) Name() string { return p.name }

func (p *ProcessorFunc) Process(ctx *composition.Context, event KeyEvent) ProcessStatus {
	return p.fn(ctx, event)
}
