package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the number of stars one worker evaluates per task.
const DefaultChunkSize = 4096

// Pipeline evaluates the vertex program over a draw range in parallel.
// Each worker owns a disjoint slice of the output, so no locking is needed.
type Pipeline struct {
	workers   int
	chunkSize int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithWorkers sets the maximum number of concurrent workers.
func WithWorkers(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithChunkSize sets how many stars each task evaluates.
func WithChunkSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// NewPipeline creates a pipeline sized to GOMAXPROCS by default.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		workers:   runtime.GOMAXPROCS(0),
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run evaluates VertexProgram for stars [0, count) of src. out is reused
// when it has enough capacity; the returned slice is index-aligned with src.
func (p *Pipeline) Run(ctx context.Context, src AttributeSource, count int, u Uniforms, out []VertexOut) ([]VertexOut, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := src.Count(); count > n {
		count = n
	}
	if count < 0 {
		count = 0
	}
	if cap(out) < count {
		out = make([]VertexOut, count)
	}
	out = out[:count]

	// Small draws are not worth the goroutines
	if count <= p.chunkSize || p.workers == 1 {
		for i := 0; i < count; i++ {
			out[i] = VertexProgram(src.Attributes(i), u)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for start := 0; start < count; start += p.chunkSize {
		start := start
		end := min(start+p.chunkSize, count)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				out[i] = VertexProgram(src.Attributes(i), u)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
