package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/okian/skillswap/internal/adapters/mq/queue"
	"github.com/okian/skillswap/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func req(id string) model.RegenerateRequest {
	return model.RegenerateRequest{UserID: id, RequestedAt: time.Now()}
}

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a queue of capacity 2", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()
		So(q.Capacity(), ShouldEqual, 2)
		So(q.Len(ctx), ShouldEqual, 0)

		Convey("When enqueuing up to capacity", func() {
			So(q.Enqueue(ctx, req("u1")), ShouldBeTrue)
			So(q.Enqueue(ctx, req("u2")), ShouldBeTrue)

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, req("u3")), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("Then requests are dequeued in order", func() {
				ch := q.Dequeue(ctx)
				So((<-ch).UserID, ShouldEqual, "u1")
				So((<-ch).UserID, ShouldEqual, "u2")
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			Convey("Then enqueue fails", func() {
				So(q.Enqueue(cctx, req("u1")), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, req("u1")), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue fails and consumers drain then stop", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, req("u2")), ShouldBeFalse)

				var got []string
				for r := range q.Dequeue(ctx) {
					got = append(got, r.UserID)
				}
				So(got, ShouldResemble, []string{"u1"})
			})
		})
	})

	Convey("Given concurrent producers", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1000))
		ctx := context.Background()
		var wg sync.WaitGroup
		for g := 0; g < 10; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 50; i++ {
					q.Enqueue(ctx, req("u"))
				}
			}()
		}
		wg.Wait()

		Convey("Then every request is queued", func() {
			So(q.Len(ctx), ShouldEqual, 500)
		})
	})
}
