package viewstate

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/afl-dashboard/internal/domain/dataset"
)

// View is what every reader sees: the last good snapshot and the state of
// the load that may be replacing it.
type View struct {
	Snapshot *dataset.Snapshot
	Version  uint64
	Loading  bool
	Err      error
	LoadedAt time.Time
	Dropped  map[dataset.Kind]int
}

// Ready reports whether a snapshot has been published.
func (v View) Ready() bool { return v.Snapshot != nil }

type subscriber struct {
	ch chan View
}

// Store holds the current View. Reads are lock free; writers are serialized.
type Store struct {
	current atomic.Pointer[View]
	closed  atomic.Bool

	mu   sync.Mutex
	subs map[*subscriber]struct{}
	now  func() time.Time
}

func NewStore() *Store {
	s := &Store{
		subs: make(map[*subscriber]struct{}),
		now:  time.Now,
	}
	s.current.Store(&View{})
	return s
}

func (s *Store) Current() View {
	return *s.current.Load()
}

// Begin marks a load as in flight.
func (s *Store) Begin() {
	s.update(func(v View) (View, bool) {
		v.Loading = true
		return v, true
	})
}

// Publish swaps in snap and bumps the version. It returns the published view.
func (s *Store) Publish(snap *dataset.Snapshot, dropped map[dataset.Kind]int) View {
	return s.update(func(v View) (View, bool) {
		if snap == nil {
			return v, false
		}
		return View{
			Snapshot: snap,
			Version:  v.Version + 1,
			LoadedAt: s.now(),
			Dropped:  dropped,
		}, true
	})
}

// Fail records err and clears loading. The previous snapshot stays visible.
func (s *Store) Fail(err error) View {
	return s.update(func(v View) (View, bool) {
		v.Loading = false
		v.Err = err
		return v, true
	})
}

// Subscribe returns a channel receiving every view change. When the buffer is
// full the oldest pending view is discarded.
func (s *Store) Subscribe(buffer int) (<-chan View, func()) {
	sub := &subscriber{ch: make(chan View, max(1, buffer))}

	s.mu.Lock()
	if s.closed.Load() {
		s.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if _, ok := s.subs[sub]; ok {
				delete(s.subs, sub)
				close(sub.ch)
			}
		})
	}
	return sub.ch, cancel
}

// Close stops all further publishing and closes subscriber channels.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Swap(true) {
		return
	}
	for sub := range s.subs {
		close(sub.ch)
		delete(s.subs, sub)
	}
}

func (s *Store) Closed() bool { return s.closed.Load() }

func (s *Store) update(fn func(View) (View, bool)) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := *s.current.Load()
	if s.closed.Load() {
		return prev
	}
	next, changed := fn(prev)
	if !changed {
		return prev
	}
	s.current.Store(&next)

	for sub := range s.subs {
		notify(sub.ch, next)
	}
	return next
}

func notify(ch chan View, v View) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
