package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	queue "github.com/nametrends/nametrends/internal/adapters/mq/queue"
	worker "github.com/nametrends/nametrends/internal/adapters/mq/worker"
	"github.com/nametrends/nametrends/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// stubRenderer renders a fixed body per path and can fail on demand.
type stubRenderer struct {
	mu     sync.Mutex
	failOn map[string]bool
	calls  []string
}

func (r *stubRenderer) Render(ctx context.Context, j worker.Job) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, j.Path)
	if r.failOn[j.Path] {
		return nil, errors.New("template blew up")
	}
	return []byte("<html>" + j.Path + "</html>"), nil
}

// stubPublisher records published pages in memory.
type stubPublisher struct {
	mu    sync.Mutex
	pages map[string][]byte
	errOn map[string]bool
}

func newStubPublisher() *stubPublisher {
	return &stubPublisher{pages: make(map[string][]byte)}
}

func (p *stubPublisher) Publish(ctx context.Context, path string, content []byte) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.errOn[path] {
		return false, errors.New("disk full")
	}
	p.pages[path] = content
	return true, nil
}

func (p *stubPublisher) page(path string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	content, ok := p.pages[path]
	return content, ok
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestInMemoryWorker(t *testing.T) {
	Convey("Given a worker wired to a queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(16))
		renderer := &stubRenderer{}
		publisher := newStubPublisher()
		w := worker.NewInMemoryWorker(q, renderer, publisher, worker.WithName("render-0"))

		go w.Run(ctx)

		Convey("When a job is enqueued", func() {
			So(q.Enqueue(ctx, queue.Job{Path: "index.html", Kind: queue.KindIndex}), ShouldBeTrue)

			Convey("Then it is rendered and published", func() {
				waitFor(t, func() bool { _, ok := publisher.page("index.html"); return ok })

				content, _ := publisher.page("index.html")
				So(string(content), ShouldEqual, "<html>index.html</html>")
			})
		})

		Convey("When a render fails", func() {
			renderer.failOn = map[string]bool{"names/Bad-F.html": true}
			So(q.Enqueue(ctx, queue.Job{Path: "names/Bad-F.html", Kind: queue.KindName}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{Path: "names/Good-F.html", Kind: queue.KindName}), ShouldBeTrue)

			Convey("Then the worker keeps going", func() {
				waitFor(t, func() bool { _, ok := publisher.page("names/Good-F.html"); return ok })

				_, bad := publisher.page("names/Bad-F.html")
				So(bad, ShouldBeFalse)
			})
		})

		Convey("When the worker is shut down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
			defer shutdownCancel()

			Convey("Then Shutdown returns cleanly", func() {
				So(w.Shutdown(shutdownCtx), ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue(queue.WithCapacity(256))
		renderer := &stubRenderer{}
		publisher := newStubPublisher()
		pool := worker.NewPool(4, q, renderer, publisher)

		pool.Start(ctx)

		Convey("When many jobs are enqueued", func() {
			const jobs = 100
			for i := 0; i < jobs; i++ {
				job := queue.Job{Path: "names/Name" + string(rune('A'+i%26)) + "-F.html", Kind: queue.KindName}
				So(q.Enqueue(ctx, job), ShouldBeTrue)
			}

			Convey("Then every distinct page is published", func() {
				waitFor(t, func() bool { return publisher.count() == 26 })
				So(publisher.count(), ShouldEqual, 26)
			})
		})

		Convey("When the pool shuts down", func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer shutdownCancel()

			Convey("Then Shutdown closes the queue and returns", func() {
				So(pool.Shutdown(shutdownCtx), ShouldBeNil)
				So(q.IsClosed(), ShouldBeTrue)
			})
		})
	})
}
