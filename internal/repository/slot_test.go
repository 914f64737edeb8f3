package repo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"blobwar/internal/bootstrap"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
)

func TestPublishedJSON(t *testing.T) {
	m := game.Jump(game.Position{X: 0, Y: 0}, game.Position{X: 2, Y: 2})
	tests := []struct {
		value Published
		json  string
	}{
		{Published{Depth: 3, Move: &m}, `{"depth":3,"move":"a1c3"}`},
		{Published{Depth: 1}, `{"depth":1,"move":null}`},
	}
	for _, tt := range tests {
		raw, err := json.Marshal(tt.value)
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != tt.json {
			t.Errorf("expected %s, got %s", tt.json, raw)
		}

		var back Published
		if err := json.Unmarshal(raw, &back); err != nil {
			t.Fatal(err)
		}
		if back.Depth != tt.value.Depth || game.FormatMove(back.Move) != game.FormatMove(tt.value.Move) {
			t.Errorf("expected %+v, got %+v", tt.value, back)
		}
	}

	var p Published
	if err := json.Unmarshal([]byte(`{"depth":2,"move":"z9"}`), &p); !errors.Is(err, blobwarErrors.ErrBadNotation) {
		t.Errorf("expected ErrBadNotation, got %v", err)
	}
}

func TestMemorySlotOverwrites(t *testing.T) {
	s := NewMemorySlot()
	if _, err := s.Load(context.Background()); !errors.Is(err, blobwarErrors.ErrNoSlotValue) {
		t.Fatalf("expected ErrNoSlotValue, got %v", err)
	}

	first := game.Duplicate(game.Position{X: 1, Y: 1})
	second := game.Duplicate(game.Position{X: 6, Y: 6})
	s.Store(1, &first)
	s.Store(2, &second)

	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if p.Depth != 2 || p.Move == nil || *p.Move != second {
		t.Fatalf("expected depth 2 %s, got %+v", second, p)
	}
}

func TestMemorySlotWatch(t *testing.T) {
	s := NewMemorySlot()
	ctx, cancel := context.WithCancel(context.Background())
	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatal(err)
	}

	m := game.Duplicate(game.Position{X: 1, Y: 0})
	s.Store(1, nil)
	s.Store(4, &m)

	select {
	case p := <-ch:
		if p.Depth != 4 {
			t.Fatalf("a slow watcher should only see the latest value, got depth %d", p.Depth)
		}
	case <-time.After(time.Second):
		t.Fatal("no value delivered")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected the channel to close")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestConnectSlotTransports(t *testing.T) {
	s, err := ConnectSlot(context.Background(), &bootstrap.Config{SlotTransport: TransportMemory}, "k", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemorySlot); !ok {
		t.Fatalf("expected a memory slot, got %T", s)
	}

	_, err = ConnectSlot(context.Background(), &bootstrap.Config{SlotTransport: "pigeon"}, "k", nil)
	if !errors.Is(err, blobwarErrors.ErrUnknownTransport) {
		t.Fatalf("expected ErrUnknownTransport, got %v", err)
	}
}

func TestConnectSlotUnreachableRedis(t *testing.T) {
	cfg := &bootstrap.Config{SlotTransport: TransportRedis, RedisUrl: "127.0.0.1:1"}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := ConnectSlot(ctx, cfg, "blobwar:slot:test", zap.NewNop().Sugar())
	if !errors.Is(err, blobwarErrors.ErrSlotConnect) {
		t.Fatalf("expected ErrSlotConnect, got %v", err)
	}
	if s != nil {
		t.Fatalf("expected no slot on failure, got %T", s)
	}
}

func TestConnectSharedSlotRefusesMemory(t *testing.T) {
	_, err := ConnectSharedSlot(context.Background(), &bootstrap.Config{SlotTransport: TransportMemory}, "k", zap.NewNop().Sugar())
	if !errors.Is(err, blobwarErrors.ErrUnknownTransport) {
		t.Fatalf("expected ErrUnknownTransport, got %v", err)
	}

	cfg := &bootstrap.Config{SlotTransport: TransportRedis, RedisUrl: "127.0.0.1:1"}
	if _, err := ConnectSharedSlot(context.Background(), cfg, "k", zap.NewNop().Sugar()); !errors.Is(err, blobwarErrors.ErrSlotConnect) {
		t.Fatalf("expected ErrSlotConnect for redis, got %v", err)
	}
}
