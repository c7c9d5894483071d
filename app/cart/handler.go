package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/wmlepcha/valensita/app/session"
	"github.com/wmlepcha/valensita/internal/metrics"
	"github.com/wmlepcha/valensita/models"
)

type CartHandler struct {
	store     *Store
	projector *Projector
	metrics   *metrics.CartMetrics
	log       logrus.FieldLogger
}

func NewCartHandler(store *Store, projector *Projector, m *metrics.CartMetrics, log logrus.FieldLogger) *CartHandler {
	return &CartHandler{
		store:     store,
		projector: projector,
		metrics:   m,
		log:       log,
	}
}

type failureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *CartHandler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	h.respondView(w, session.FromContext(r.Context()))
}

func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProductID uint   `json:"product_id"`
		Quantity  int    `json:"quantity"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.ProductID == 0 {
		respondFailure(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if input.Quantity < 1 {
		respondFailure(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	sessionID := session.FromContext(r.Context())
	if _, err := h.store.Add(sessionID, input.ProductID, input.Quantity, input.Size, input.Color); err != nil {
		h.respondCartError(w, err)
		return
	}

	h.metrics.ObserveAdd()
	h.respondView(w, sessionID)
}

func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondFailure(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Quantity < 1 {
		respondFailure(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	sessionID := session.FromContext(r.Context())
	if _, err := h.store.Update(sessionID, key, input.Quantity); err != nil {
		h.respondCartError(w, err)
		return
	}

	h.metrics.ObserveUpdate()
	h.respondView(w, sessionID)
}

func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	sessionID := session.FromContext(r.Context())
	if _, err := h.store.Remove(sessionID, r.PathValue("key")); err != nil {
		h.respondCartError(w, err)
		return
	}

	h.metrics.ObserveRemove()
	h.respondView(w, sessionID)
}

func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	sessionID := session.FromContext(r.Context())
	if err := h.store.Clear(sessionID); err != nil {
		h.respondCartError(w, err)
		return
	}

	h.metrics.ObserveClear()
	h.respondView(w, sessionID)
}

func (h *CartHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	sessionID := session.FromContext(r.Context())
	count, err := h.store.Count(sessionID)
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *CartHandler) respondView(w http.ResponseWriter, sessionID string) {
	view, err := h.projector.Project(sessionID)
	if err != nil {
		h.respondCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// respondCartError maps the cart error taxonomy onto the API's structured
// failure shape. Nothing here is fatal to the process.
func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	var stockErr *StockError
	switch {
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, ErrLineNotFound):
		respondFailure(w, http.StatusNotFound, err.Error())
	case errors.As(err, &stockErr):
		h.metrics.ObserveStockRejected(string(stockErr.Reason))
		respondFailure(w, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, ErrSizeRequired):
		respondFailure(w, http.StatusBadRequest, err.Error())
	default:
		h.log.WithError(err).Error("cart operation failed")
		respondFailure(w, http.StatusInternalServerError, "internal error")
	}
}

func respondFailure(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, failureResponse{Success: false, Message: message})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
