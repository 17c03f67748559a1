package stream

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	dto "cluster_slots/internal/api/dto/slot"
	slotAPI "cluster_slots/internal/api/slot"
	"cluster_slots/internal/converter"
	"cluster_slots/internal/middleware"
	"cluster_slots/internal/model"
	"cluster_slots/internal/service"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	maxMessage = 4 << 10
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type HandlerDeps struct {
	Serv     service.SlotService
	Log      *zap.Logger
	Upgrader *websocket.Upgrader
	// AllowedOrigins feeds the default upgrader; the REST routes use the same
	// list through cors.
	AllowedOrigins []string
}

// Handler streams spins over a websocket: the client sends
// {"type":"spin","stake":N}, the server answers with one round frame per
// grid state and a closing summary frame, or a single error frame.
type Handler struct {
	serv     service.SlotService
	log      *zap.Logger
	upgrader *websocket.Upgrader
}

func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{serv: deps.Serv, log: deps.Log, upgrader: deps.Upgrader}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.upgrader == nil {
		h.upgrader = &websocket.Upgrader{CheckOrigin: OriginChecker(deps.AllowedOrigins)}
	}
	return h
}

// OriginChecker accepts requests without an Origin header and those whose
// Origin matches an allowed entry; "*" allows all. With no entries it returns
// nil, leaving gorilla's same-origin check in place.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessage)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	log := h.log.With(zap.String("session", id))
	log.Debug("stream opened")
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("stream read", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		var in dto.StreamMessage
		if err := json.Unmarshal(data, &in); err != nil {
			if err := send(conn, dto.StreamMessage{Type: "error", Error: "malformed message"}); err != nil {
				return
			}
			continue
		}
		if in.Type != "spin" {
			if err := send(conn, dto.StreamMessage{Type: "error", Error: "unknown message type " + in.Type}); err != nil {
				return
			}
			continue
		}
		if err := h.spin(r.Context(), conn, id, in.Stake); err != nil {
			log.Warn("stream write", zap.Error(err))
			return
		}
	}
}

func (h *Handler) spin(ctx context.Context, conn *websocket.Conn, id string, stake int) error {
	res, err := h.serv.Spin(ctx, id, model.SpinRequest{Stake: stake})
	if res == nil || (err != nil && !errors.Is(err, model.ErrPersistenceUnavailable)) {
		return send(conn, dto.StreamMessage{
			Type:  "error",
			Error: err.Error(),
			Code:  slotAPI.StatusFor(err),
		})
	}

	for _, r := range res.Rounds {
		round := converter.ToRound(r)
		if err := send(conn, dto.StreamMessage{Type: "round", Round: &round}); err != nil {
			return err
		}
	}
	summary := converter.ToSummary(res.Summary)
	st := converter.ToStateResponse(res.State, err)
	return send(conn, dto.StreamMessage{Type: "summary", Summary: &summary, State: &st})
}

func send(conn *websocket.Conn, msg dto.StreamMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, b)
}
