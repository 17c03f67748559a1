package slot

import (
	"errors"
	"net/http"

	dto "cluster_slots/internal/api/dto/slot"
	"cluster_slots/internal/converter"
	"cluster_slots/internal/middleware"
	"cluster_slots/internal/model"
	"cluster_slots/internal/service"
	"cluster_slots/pkg/req"
	"cluster_slots/pkg/resp"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.SlotService
	Log  *zap.Logger
}

type Handler struct {
	serv service.SlotService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{serv: deps.Serv, log: log}
}

// maxBodyBytes bounds spin and deposit payloads.
const maxBodyBytes = 1 << 12

func decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	payload, err := req.Decode[T](http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil {
		return payload, true
	}
	status := http.StatusBadRequest
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		status = http.StatusRequestEntityTooLarge
	}
	resp.WriteError(w, status, err.Error())
	return payload, false
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.Error(err))
	}
	resp.WriteError(w, status, err.Error())
}

// outcomeStands reports whether err still came with a usable result.
func outcomeStands(err error) bool {
	return err == nil || errors.Is(err, model.ErrPersistenceUnavailable)
}

func (h *Handler) NewSession(w http.ResponseWriter, r *http.Request) {
	id, st, err := h.serv.NewSession(r.Context())
	if st == nil {
		h.writeError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusCreated, dto.SessionResponse{
		SessionID: id,
		State:     converter.ToStateResponse(*st, err),
	})
}

func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())
	payload, ok := decode[dto.SpinRequest](w, r)
	if !ok {
		return
	}

	result, err := h.serv.Spin(r.Context(), id, converter.ToSpinRequest(payload))
	if result == nil || !outcomeStands(err) {
		h.writeError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result, err))
}

func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())
	st, err := h.serv.State(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(*st, nil))
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())
	payload, ok := decode[dto.DepositRequest](w, r)
	if !ok {
		return
	}

	st, err := h.serv.Deposit(r.Context(), id, payload.Amount)
	if st == nil {
		h.writeError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(*st, err))
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())
	st, err := h.serv.Reset(r.Context(), id)
	if st == nil {
		h.writeError(w, err)
		return
	}
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStateResponse(*st, err))
}

// Save retries persisting a session whose last save failed.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.SessionFromContext(r.Context())
	if err := h.serv.Flush(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(h.serv.Stats()))
}
