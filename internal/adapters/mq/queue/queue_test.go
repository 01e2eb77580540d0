package queue_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/crewcast/internal/adapters/mq/queue"
	"github.com/okian/crewcast/internal/domain/model"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory edit queue", t, func() {
		ctx := context.Background()

		Convey("When envelopes are enqueued and dequeued", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(4))
			first := queue.NewEnvelope(model.EditCommand{Kind: model.EditNone})
			second := queue.NewEnvelope(model.EditCommand{Kind: model.EditSwap})

			So(q.Enqueue(ctx, first), ShouldBeTrue)
			So(q.Enqueue(ctx, second), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)

			Convey("Then they come out in enqueue order", func() {
				in := q.Dequeue(ctx)
				So((<-in).Cmd.Kind, ShouldEqual, model.EditNone)
				So((<-in).Cmd.Kind, ShouldEqual, model.EditSwap)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(queue.WithCapacity(1))
			So(q.Enqueue(ctx, queue.NewEnvelope(model.EditCommand{Kind: model.EditNone})), ShouldBeTrue)

			Convey("Then further enqueues report backpressure", func() {
				So(q.Enqueue(ctx, queue.NewEnvelope(model.EditCommand{Kind: model.EditNone})), ShouldBeFalse)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are refused", func() {
				So(q.Enqueue(ctx, queue.NewEnvelope(model.EditCommand{Kind: model.EditNone})), ShouldBeFalse)
			})

			Convey("And the dequeue channel is closed", func() {
				_, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeFalse)
			})

			Convey("And closing again is harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})

		Convey("When pending envelopes exist at close time", func() {
			q := queue.NewInMemoryQueue()
			env := queue.NewEnvelope(model.EditCommand{Kind: model.EditAlloc})
			So(q.Enqueue(ctx, env), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then they remain consumable", func() {
				got, ok := <-q.Dequeue(ctx)
				So(ok, ShouldBeTrue)
				So(got.Cmd.Kind, ShouldEqual, model.EditAlloc)
			})
		})
	})
}
