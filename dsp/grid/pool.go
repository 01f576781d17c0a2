package grid

import "sync"

// Pool provides sync.Pool-based Grid reuse to reduce GC pressure across
// repeated convolutions and deconvolution runs.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Grid{}
			},
		},
	}
}

// Get returns a zeroed Grid with the requested dims.
// Callers must return it via Put when done.
func (p *Pool) Get(dims ...int) (*Grid, error) {
	n, err := Volume(dims)
	if err != nil {
		return nil, err
	}

	g := p.pool.Get().(*Grid)
	g.dims = append(g.dims[:0], dims...)
	if cap(g.data) < n {
		g.data = make([]float64, n)
	} else {
		g.data = g.data[:n]
		clear(g.data)
	}

	return g, nil
}

// Put returns a Grid to the pool for reuse.
// The caller must not use the grid after calling Put.
func (p *Pool) Put(g *Grid) {
	if g == nil {
		return
	}
	p.pool.Put(g)
}
