package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	queue "github.com/nametrends/nametrends/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given an in-memory job queue", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue(queue.WithCapacity(4), queue.WithBufferSize(4))

		Convey("When a job is enqueued", func() {
			job := queue.Job{Path: "names/Ivy-F.html", Kind: queue.KindName, Name: "Ivy", Sex: "F"}
			ok := q.Enqueue(ctx, job)

			Convey("Then it is accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("And it comes back out through Dequeue", func() {
				out := q.Dequeue(ctx)
				select {
				case got := <-out:
					So(got.Path, ShouldEqual, "names/Ivy-F.html")
					So(got.Kind, ShouldEqual, queue.KindName)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for job")
				}
			})
		})

		Convey("When the queue reaches capacity", func() {
			for i := 0; i < 4; i++ {
				So(q.Enqueue(ctx, queue.Job{Path: fmt.Sprintf("p%d", i)}), ShouldBeTrue)
			}

			Convey("Then further enqueues are rejected", func() {
				So(q.Enqueue(ctx, queue.Job{Path: "overflow"}), ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 4)
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Enqueue(ctx, queue.Job{Path: "before-close"}), ShouldBeTrue)
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Job{Path: "after-close"}), ShouldBeFalse)
			})

			Convey("Then buffered jobs drain and the channel closes", func() {
				out := q.Dequeue(ctx)

				got, ok := <-out
				So(ok, ShouldBeTrue)
				So(got.Path, ShouldEqual, "before-close")

				_, ok = <-out
				So(ok, ShouldBeFalse)
			})

			Convey("Then closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
