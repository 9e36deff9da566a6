package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/skillswap/internal/adapters/mq/queue"
	worker "github.com/okian/skillswap/internal/adapters/mq/worker"
	model "github.com/okian/skillswap/internal/domain/model"
	logging "github.com/okian/skillswap/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type recordingGenerator struct {
	mu    sync.Mutex
	seen  []string
	fails map[string]error
}

func (g *recordingGenerator) Regenerate(_ context.Context, userID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seen = append(g.seen, userID)
	return g.fails[userID]
}

func (g *recordingGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.seen...)
}

type releaseLog struct {
	mu  sync.Mutex
	ids []string
}

func (r *releaseLog) add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, id)
}

func (r *releaseLog) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}

func request(id string) model.RegenerateRequest {
	return model.RegenerateRequest{UserID: id, RequestedAt: time.Now()}
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading from a queue", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(8))
		gen := &recordingGenerator{fails: map[string]error{"bad": errors.New("boom")}}
		released := &releaseLog{}
		w := worker.NewInMemoryWorker(q, gen,
			worker.WithName("test-worker"),
			worker.WithLogger(logging.Nop()),
			worker.WithRelease(released.add),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When requests are enqueued and the queue is closed", func() {
			q.Enqueue(ctx, request("u1"))
			q.Enqueue(ctx, request("bad"))
			q.Enqueue(ctx, request("u2"))
			convey.So(q.Close(), convey.ShouldBeNil)

			convey.Convey("Then every request is processed and released", func() {
				select {
				case <-w.Done():
				case <-time.After(2 * time.Second):
					t.Fatal("worker did not stop")
				}
				convey.So(gen.calls(), convey.ShouldResemble, []string{"u1", "bad", "u2"})
				convey.So(released.count(), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			err := w.Shutdown(context.Background())

			convey.Convey("Then it stops without error", func() {
				convey.So(err, convey.ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a pool of four workers", t, func() {
		_ = logging.Init()
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		gen := &recordingGenerator{}
		released := &releaseLog{}
		pool := worker.NewPool(4, q, gen, worker.WithLogger(logging.Nop()), worker.WithRelease(released.add))
		convey.So(pool.Size(), convey.ShouldEqual, 4)

		ctx := context.Background()
		pool.Start(ctx)

		convey.Convey("When fifty requests are enqueued and the pool shuts down", func() {
			for range 50 {
				convey.So(q.Enqueue(ctx, request("u")), convey.ShouldBeTrue)
			}
			err := pool.Shutdown(ctx)

			convey.Convey("Then the queue is drained", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(gen.calls()), convey.ShouldEqual, 50)
				convey.So(released.count(), convey.ShouldEqual, 50)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a non-positive worker count", t, func() {
		_ = logging.Init()
		pool := worker.NewPool(0, queue.NewInMemoryQueue(), worker.GeneratorFunc(func(context.Context, string) error { return nil }))

		convey.Convey("Then the pool still has workers", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}
