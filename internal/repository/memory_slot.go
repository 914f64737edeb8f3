package repo

import (
	"context"
	"sync"

	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
)

// MemorySlot is an in-process Slot. Watchers that fall behind only see
// the latest value.
type MemorySlot struct {
	mu       sync.Mutex
	value    *Published
	watchers map[chan Published]struct{}
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{watchers: make(map[chan Published]struct{})}
}

func (s *MemorySlot) Store(depth int, m *game.Movement) {
	p := Published{Depth: depth, Move: m}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = &p
	for ch := range s.watchers {
		select {
		case <-ch:
		default:
		}
		ch <- p
	}
}

func (s *MemorySlot) Load(context.Context) (Published, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == nil {
		return Published{}, blobwarErrors.ErrNoSlotValue
	}
	return *s.value, nil
}

func (s *MemorySlot) Watch(ctx context.Context) (<-chan Published, error) {
	ch := make(chan Published, 1)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

func (s *MemorySlot) Close(context.Context) error {
	return nil
}
