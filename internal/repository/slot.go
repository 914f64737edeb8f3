package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"blobwar/internal/adapters"
	"blobwar/internal/bootstrap"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
)

const (
	TransportRedis  = "redis"
	TransportMemory = "memory"

	slotTTL     = 10 * time.Minute
	slotTimeout = 2 * time.Second
)

// Published is the last value stored in a slot.
type Published struct {
	Depth int
	Move  *game.Movement
}

type publishedJSON struct {
	Depth int     `json:"depth"`
	Move  *string `json:"move"`
}

func (p Published) MarshalJSON() ([]byte, error) {
	out := publishedJSON{Depth: p.Depth}
	if p.Move != nil {
		s := p.Move.String()
		out.Move = &s
	}
	return json.Marshal(out)
}

func (p *Published) UnmarshalJSON(data []byte) error {
	var in publishedJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Depth, p.Move = in.Depth, nil
	if in.Move != nil {
		m, err := game.ParseMovement(*in.Move)
		if err != nil {
			return err
		}
		p.Move = &m
	}
	return nil
}

// Slot is a single overwrite-on-write cell shared between the anytime
// search and whoever reads its answer.
type Slot interface {
	// Store overwrites the value. Transport failures are logged, never returned.
	Store(depth int, m *game.Movement)
	// Load returns ErrNoSlotValue until something was stored.
	Load(ctx context.Context) (Published, error)
	// Watch streams every value stored after the call until ctx is done.
	Watch(ctx context.Context) (<-chan Published, error)
	Close(ctx context.Context) error
}

// ConnectSlot opens the slot named key on the configured transport.
// There is no retry: a transport that cannot be reached is an error.
func ConnectSlot(ctx context.Context, cfg *bootstrap.Config, key string, log *zap.SugaredLogger) (Slot, error) {
	switch cfg.SlotTransport {
	case TransportMemory:
		return NewMemorySlot(), nil
	case TransportRedis, "":
		adapter := adapters.NewAdapterRedis(cfg, log)
		if err := adapter.Init(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", blobwarErrors.ErrSlotConnect, err)
		}
		return NewRedisSlot(adapter, key, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", blobwarErrors.ErrUnknownTransport, cfg.SlotTransport)
	}
}

// ConnectSharedSlot is ConnectSlot for a slot read by another process or
// connection than the one writing it. A memory slot is private to its
// opener, so the memory transport is refused.
func ConnectSharedSlot(ctx context.Context, cfg *bootstrap.Config, key string, log *zap.SugaredLogger) (Slot, error) {
	if cfg.SlotTransport == TransportMemory {
		return nil, fmt.Errorf("%w: a memory slot cannot be shared", blobwarErrors.ErrUnknownTransport)
	}
	return ConnectSlot(ctx, cfg, key, log)
}

// RedisSlot keeps the value under key and announces every store on the
// channel of the same name.
type RedisSlot struct {
	adapter *adapters.AdapterRedis
	client  *redis.Client
	key     string
	log     *zap.SugaredLogger
}

func NewRedisSlot(adapter *adapters.AdapterRedis, key string, log *zap.SugaredLogger) *RedisSlot {
	return &RedisSlot{
		adapter: adapter,
		client:  adapter.GetClient(),
		key:     key,
		log:     log,
	}
}

func (s *RedisSlot) Store(depth int, m *game.Movement) {
	payload, err := json.Marshal(Published{Depth: depth, Move: m})
	if err != nil {
		s.log.Errorw("encode slot value", "key", s.key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), slotTimeout)
	defer cancel()

	if err := s.client.Set(ctx, s.key, payload, slotTTL).Err(); err != nil {
		s.log.Errorw("store slot value", "key", s.key, "depth", depth, "error", err)
		return
	}
	if err := s.client.Publish(ctx, s.key, payload).Err(); err != nil {
		s.log.Warnw("announce slot value", "key", s.key, "error", err)
	}
}

func (s *RedisSlot) Load(ctx context.Context) (Published, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Published{}, blobwarErrors.ErrNoSlotValue
	}
	if err != nil {
		return Published{}, fmt.Errorf("load slot %s: %w", s.key, err)
	}

	var p Published
	if err := json.Unmarshal(raw, &p); err != nil {
		return Published{}, fmt.Errorf("decode slot %s: %w", s.key, err)
	}
	return p, nil
}

func (s *RedisSlot) Watch(ctx context.Context) (<-chan Published, error) {
	sub := s.client.Subscribe(ctx, s.key)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe slot %s: %w", s.key, err)
	}

	out := make(chan Published)
	go func() {
		defer close(out)
		defer sub.Close()

		messages := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var p Published
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					s.log.Warnw("skipping malformed slot value", "key", s.key, "error", err)
					continue
				}
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Drop removes the value so a finished search leaves nothing behind.
func (s *RedisSlot) Drop(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

func (s *RedisSlot) Close(ctx context.Context) error {
	return s.adapter.Close(ctx)
}
