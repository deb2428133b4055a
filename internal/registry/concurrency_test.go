package registry

import (
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// A listener subscribing with replay while other goroutines register must
// observe every instance exactly once.
func TestReplay_ConcurrentRegister_NoDuplicatesNoOmissions(t *testing.T) {
	const (
		workers   = 8
		perWorker = 200
	)
	r := New()

	var (
		mu   sync.Mutex
		seen = make(map[*widget]int)
	)
	var h *Handle
	var g errgroup.Group
	start := make(chan struct{})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			<-start
			for i := 0; i < perWorker; i++ {
				if err := r.Register(&widget{}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		<-start
		var err error
		h, err = SubscribeTo[*widget](r, func(w *widget) error {
			mu.Lock()
			seen[w]++
			mu.Unlock()
			return nil
		}, nil, nil, true)
		return err
	})
	close(start)
	if err := g.Wait(); err != nil {
		t.Fatalf("workers: %v", err)
	}
	defer h.Dispose()

	all, _ := QueryOf[*widget](r)
	if len(all) != workers*perWorker {
		t.Fatalf("registered=%d", len(all))
	}
	mu.Lock()
	defer mu.Unlock()
	for _, w := range all {
		if seen[w] != 1 {
			t.Fatalf("instance seen %d times", seen[w])
		}
	}
	if len(seen) != len(all) {
		t.Fatalf("seen %d distinct, registered %d", len(seen), len(all))
	}
}

func TestConcurrentMutation_LeavesNoEntries(t *testing.T) {
	r := New()
	key := mustKey[*widget](t)
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for i := 0; i < 100; i++ {
				x := &widget{}
				if err := r.Register(x); err != nil {
					return err
				}
				h, err := r.Subscribe(key, Listener{OnAssign: func(any) error { return nil }}, i%2 == 0)
				if err != nil {
					return err
				}
				_, _ = r.Query(key)
				if i%3 == 0 {
					_ = h.Pause()
				}
				h.Dispose()
				if err := r.Unregister(x); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("workers: %v", err)
	}
	if r.hasEntry(key) || r.hasListenerEntry(key) {
		t.Fatalf("entries retained after all removals")
	}
}
