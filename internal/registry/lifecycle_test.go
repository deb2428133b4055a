package registry

import (
	"runtime"
	"testing"
	"time"
)

type session struct {
	Tracked
	name string
}

func newSession(r *Registry, name string) (*session, error) {
	s := &session{name: name}
	return s, s.Track(r, s)
}

func TestAttach_CloseOnce(t *testing.T) {
	pub := NewMemoryPublisher()
	r := New(WithEventPublisher(pub))
	w := &widget{name: "w"}
	b, err := Attach(r, w)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if b.Key() != mustKey[*widget](t) {
		t.Fatalf("Key=%v", b.Key())
	}
	if r.Len(b.Key()) != 1 {
		t.Fatalf("not registered")
	}
	b.Close()
	b.Close()
	if r.Len(b.Key()) != 0 {
		t.Fatalf("still registered")
	}
	if n := pub.Count(EventUnassign); n != 1 {
		t.Fatalf("unassign events=%d", n)
	}
}

func TestAttach_CloseRemovesOwnSlot(t *testing.T) {
	r := New()
	w := &widget{name: "w"}
	b1, _ := Attach(r, w)
	_, _ = Attach(r, w)
	b1.Close()
	if n := r.Len(mustKey[*widget](t)); n != 1 {
		t.Fatalf("len=%d want 1", n)
	}
}

func TestAttach_Invalid(t *testing.T) {
	r := New()
	if _, err := Attach(r, nil); !IsInvalidArgument(err) {
		t.Fatalf("Attach(nil): %v", err)
	}
	if _, err := AttachWeak[widget](r, nil); !IsInvalidArgument(err) {
		t.Fatalf("AttachWeak(nil): %v", err)
	}
}

func TestTracked_TrackUntrack(t *testing.T) {
	r := New()
	var rec recorder
	h, _ := SubscribeTo[*session](r, func(s *session) error { return rec.add(s) }, func(s *session) error { return rec.add(s) }, nil, false)
	defer h.Dispose()

	s, err := newSession(r, "one")
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if !s.IsTracked() {
		t.Fatalf("IsTracked=false")
	}
	if err := s.Track(r, s); !IsInvalidArgument(err) {
		t.Fatalf("double Track: %v", err)
	}
	if rec.len() != 1 {
		t.Fatalf("rejected Track notified listeners: calls=%d want 1", rec.len())
	}
	got, _ := QueryOf[*session](r)
	if len(got) != 1 || got[0] != s {
		t.Fatalf("QueryOf=%v", got)
	}
	s.Untrack()
	s.Untrack()
	if got, _ := QueryOf[*session](r); len(got) != 0 {
		t.Fatalf("after Untrack=%v", got)
	}
	if rec.len() != 2 {
		t.Fatalf("assign+unassign calls=%d want 2", rec.len())
	}
}

func TestTracked_RejectedTrackPublishesNothing(t *testing.T) {
	pub := NewMemoryPublisher()
	r := New(WithEventPublisher(pub))
	s, err := newSession(r, "one")
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Track(r, s); !IsInvalidArgument(err) {
			t.Fatalf("Track #%d: %v", i+2, err)
		}
	}
	if a, u := pub.Count(EventAssign), pub.Count(EventUnassign); a != 1 || u != 0 {
		t.Fatalf("assign=%d unassign=%d want 1/0", a, u)
	}

	// a value can be tracked again once untracked
	s.Untrack()
	if err := s.Track(r, s); err != nil {
		t.Fatalf("Track after Untrack: %v", err)
	}
	defer s.Untrack()
	if n := r.Len(mustKey[*session](t)); n != 1 {
		t.Fatalf("len=%d want 1", n)
	}
}

func TestAttachWeak_ExplicitClose(t *testing.T) {
	r := New()
	var rec recorder
	h, _ := r.Subscribe(mustKey[*widget](t), Listener{OnAssign: rec.add, OnUnassign: rec.add}, false)
	defer h.Dispose()
	w := &widget{name: "weak"}
	b, err := AttachWeak(r, w)
	if err != nil {
		t.Fatalf("AttachWeak: %v", err)
	}
	if got, _ := r.Query(b.Key()); len(got) != 1 || got[0] != w {
		t.Fatalf("Query=%v", got)
	}
	b.Close()
	got := rec.values()
	if len(got) != 2 || got[1] != w {
		t.Fatalf("callbacks=%v", got)
	}
	runtime.KeepAlive(w)
}

func TestAttachWeak_CollectedInstanceIsUnregistered(t *testing.T) {
	r := New()
	key := mustKey[*widget](t)
	var rec recorder
	h, _ := r.Subscribe(key, Listener{OnAssign: func(any) error { return nil }, OnUnassign: rec.add}, false)
	defer h.Dispose()

	func() {
		w := &widget{name: "ephemeral"}
		if _, err := AttachWeak(r, w); err != nil {
			t.Fatalf("AttachWeak: %v", err)
		}
	}()
	if !eventually(2*time.Second, func() bool { return !r.hasEntry(key) }) {
		t.Skip("runtime cleanup did not run in time; finalization is best-effort")
	}
	got := rec.values()
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("unassign for collected instance=%v want [nil]", got)
	}
	if r.Len(key) != 0 {
		t.Fatalf("collected instance still counted")
	}
}

func TestHandle_DroppedWithoutDisposeIsCleanedUp(t *testing.T) {
	r := New()
	key := mustKey[*widget](t)
	func() {
		_, err := r.Subscribe(key, Listener{OnAssign: func(any) error { return nil }}, false)
		if err != nil {
			t.Fatalf("Subscribe: %v", err)
		}
	}()
	if !eventually(2*time.Second, func() bool { return !r.hasListenerEntry(key) }) {
		t.Skip("runtime cleanup did not run in time; finalization is best-effort")
	}
}
