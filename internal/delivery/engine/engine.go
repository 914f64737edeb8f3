package engine

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"blobwar/internal/domain"
	blobwarErrors "blobwar/internal/errors"
	"blobwar/internal/httpresponse"
	"blobwar/internal/utils"
)

// MoveComputer is served either by the local engine usecase or by the
// gRPC engine client.
type MoveComputer interface {
	ComputeMove(ctx context.Context, req domain.MoveRequest) (domain.MoveResponse, error)
}

type MatchLister interface {
	RecentMatches(ctx context.Context, limit int64) ([]domain.MatchRecord, error)
}

const defaultMatchLimit = 20

type EngineHandler struct {
	log     *zap.SugaredLogger
	engine  MoveComputer
	matches MatchLister
}

// NewEngineHandler serves moves. matches may be nil when no archive is configured.
func NewEngineHandler(log *zap.SugaredLogger, engine MoveComputer, matches MatchLister) *EngineHandler {
	return &EngineHandler{
		log:     log,
		engine:  engine,
		matches: matches,
	}
}

func (h *EngineHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	var req domain.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Debugw("bad move request", "error", err)
		httpresponse.WriteError(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.engine.ComputeMove(r.Context(), req)
	switch {
	case err == nil:
		httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
	case errors.Is(err, blobwarErrors.ErrBadNotation),
		errors.Is(err, blobwarErrors.ErrUnknownStrategy):
		httpresponse.WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, blobwarErrors.ErrGameOver):
		httpresponse.WriteError(w, http.StatusConflict, err)
	default:
		h.log.Errorw("compute move", "board", req.Board, "strategy", req.Strategy, "error", err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}

func (h *EngineHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	if h.matches == nil {
		httpresponse.WriteError(w, http.StatusNotFound, errors.New("match archive is not configured"))
		return
	}

	limit := int64(defaultMatchLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			httpresponse.WriteError(w, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := h.matches.RecentMatches(r.Context(), limit)
	if err != nil {
		h.log.Errorw("list matches", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, records)
}
