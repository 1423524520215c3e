package pool_test

import (
	"testing"

	"github.com/KirkDiggler/fps-hud/internal/pool"
	"github.com/KirkDiggler/fps-hud/internal/uuid"
)

type feedRow struct {
	cells [8]string
}

func benchConfig() pool.Config[*feedRow] {
	return pool.Config[*feedRow]{
		InitialSize: 16,
		MaxSize:     64,
		New:         func() *feedRow { return &feedRow{} },
		Activate:    func(r *feedRow, params any) { r.cells[0], _ = params.(string) },
		Reset:       func(r *feedRow) { r.cells = [8]string{} },
		IDGenerator: uuid.NewSequentialGenerator("row"),
	}
}

func benchmarkBurst(b *testing.B, alloc pool.Allocator[*feedRow]) {
	held := make([]*pool.Item[*feedRow], 0, 10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// A ten-kill streak followed by the feed clearing
		for k := 0; k < 10; k++ {
			item, err := alloc.Acquire("Grunt")
			if err != nil {
				b.Fatal(err)
			}
			held = append(held, item)
		}
		for _, item := range held {
			alloc.Release(item)
		}
		held = held[:0]
	}
}

func BenchmarkPooledBurst(b *testing.B) {
	p, err := pool.New(benchConfig())
	if err != nil {
		b.Fatal(err)
	}
	benchmarkBurst(b, p)
}

func BenchmarkUnpooledBurst(b *testing.B) {
	u, err := pool.NewUnpooled(benchConfig())
	if err != nil {
		b.Fatal(err)
	}
	benchmarkBurst(b, u)
}
