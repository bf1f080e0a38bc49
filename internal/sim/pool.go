package sim

import (
	"sync"

	"github.com/san-kum/heatrod/internal/heat"
)

// SnapshotPool recycles fixed-length fields for consumers that copy every
// snapshot before handing it to another goroutine.
type SnapshotPool struct {
	pool sync.Pool
	size int
}

func NewSnapshotPool(nodes int) *SnapshotPool {
	return &SnapshotPool{
		size: nodes,
		pool: sync.Pool{
			New: func() interface{} {
				return make(heat.Field, nodes)
			},
		},
	}
}

func (p *SnapshotPool) Get() heat.Field {
	return p.pool.Get().(heat.Field)
}

func (p *SnapshotPool) Put(f heat.Field) {
	if len(f) == p.size {
		for i := range f {
			f[i] = 0
		}
		p.pool.Put(f)
	}
}

func (p *SnapshotPool) GetAndCopy(src heat.Field) heat.Field {
	dst := p.Get()
	copy(dst, src)
	return dst
}
