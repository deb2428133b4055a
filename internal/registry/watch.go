package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"

	"assemblyd/pkg/types"
)

// maxWatchBacklog bounds the events buffered for one watch stream.
const maxWatchBacklog = 1024

// watchQueue buffers events produced by listener callbacks. Callbacks run
// with the instance lock held, so push never blocks. When the reader falls
// more than limit events behind, the oldest events are dropped and the next
// drain starts with an error event reporting how many were lost.
type watchQueue struct {
	mu      sync.Mutex
	key     string
	limit   int
	events  []types.WatchEvent
	dropped int
	notify  chan struct{}
}

func newWatchQueue(key string, limit int) *watchQueue {
	return &watchQueue{key: key, limit: limit, notify: make(chan struct{}, 1)}
}

func (q *watchQueue) push(e types.WatchEvent) {
	q.mu.Lock()
	if len(q.events) >= q.limit {
		n := len(q.events) - q.limit + 1
		q.events = q.events[n:]
		q.dropped += n
	}
	q.events = append(q.events, e)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *watchQueue) drain() []types.WatchEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	if q.dropped > 0 {
		overflow := types.WatchEvent{
			Kind:  "error",
			Type:  q.key,
			Error: fmt.Sprintf("watch backlog overflow: %d events dropped", q.dropped),
			Time:  strfmt.DateTime(time.Now()),
		}
		out = append([]types.WatchEvent{overflow}, out...)
		q.dropped = 0
	}
	return out
}

// Watch streams assign/unassign notifications for key to w as NDJSON
// WatchEvent lines until ctx is done or a write fails. With replay, the
// instances registered before the call are streamed first. The
// subscription is disposed on return.
func (r *Registry) Watch(ctx context.Context, key TypeKey, replay bool, w io.Writer, flush func()) error {
	q := newWatchQueue(key.name, maxWatchBacklog)
	event := func(kind string) func(any) error {
		return func(v any) error {
			q.push(types.WatchEvent{Kind: kind, Type: key.name, Instance: Describe(v), Time: strfmt.DateTime(time.Now())})
			return nil
		}
	}
	h, err := r.Subscribe(key, Listener{
		OnAssign:   event(EventAssign),
		OnUnassign: event(EventUnassign),
		OnException: func(err error) {
			q.push(types.WatchEvent{Kind: "error", Type: key.name, Error: err.Error(), Time: strfmt.DateTime(time.Now())})
		},
	}, replay)
	if err != nil {
		return err
	}
	defer h.Dispose()

	enc := json.NewEncoder(w)
	for {
		for _, e := range q.drain() {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		if flush != nil {
			flush()
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Describe renders an instance for display: fmt.Stringer values use
// String, reference kinds print type and address, the rest type and value.
func Describe(v any) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return fmt.Sprintf("%T(%p)", v, v)
	}
	return fmt.Sprintf("%T(%v)", v, v)
}
