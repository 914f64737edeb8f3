package watch

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"blobwar/internal/domain"
	"blobwar/internal/domain/game"
	blobwarErrors "blobwar/internal/errors"
	repo "blobwar/internal/repository"
)

const (
	slotPrefix = "blobwar:slot:"
	writeWait  = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SlotOpener opens the slot stored under key.
type SlotOpener func(ctx context.Context, key string) (repo.Slot, error)

type WatchHandler struct {
	log  *zap.SugaredLogger
	open SlotOpener
}

func NewWatchHandler(log *zap.SugaredLogger, open SlotOpener) *WatchHandler {
	return &WatchHandler{log: log, open: open}
}

// HandleSlot streams every publication of an anytime search to a websocket,
// starting with the current value when there is one.
func (h *WatchHandler) HandleSlot(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if !strings.HasPrefix(key, slotPrefix) {
		key = slotPrefix + key
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	slot, err := h.open(ctx, key)
	if err != nil {
		h.log.Errorw("open slot", "key", key, "error", err)
		http.Error(w, "slot unavailable", http.StatusServiceUnavailable)
		return
	}
	defer slot.Close(context.Background())

	updates, err := slot.Watch(ctx)
	if err != nil {
		h.log.Errorw("watch slot", "key", key, "error", err)
		http.Error(w, "slot unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade", "error", err)
		return
	}
	defer conn.Close()

	// The client never sends anything; a read error means it went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	if current, err := slot.Load(ctx); err == nil {
		if !h.send(conn, key, current) {
			return
		}
	} else if !errors.Is(err, blobwarErrors.ErrNoSlotValue) {
		h.log.Warnw("load slot", "key", key, "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-updates:
			if !ok || !h.send(conn, key, p) {
				return
			}
		}
	}
}

func (h *WatchHandler) send(conn *websocket.Conn, key string, p repo.Published) bool {
	event := domain.SlotEvent{Key: key, Depth: p.Depth, Move: game.FormatMove(p.Move)}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(event); err != nil {
		h.log.Debugw("websocket write", "key", key, "error", err)
		return false
	}
	return true
}
