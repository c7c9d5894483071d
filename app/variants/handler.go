package variants

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/wmlepcha/valensita/models"
)

type VariantResponse struct {
	ID        uint   `json:"id"`
	ProductID uint   `json:"product_id"`
	Type      string `json:"type"`
	Name      string `json:"name"`
	Value     string `json:"value,omitempty"`
	Quantity  int    `json:"quantity"`
	IsActive  bool   `json:"is_active"`
	Position  int    `json:"position"`
}

type VariantAdmin interface {
	GetByID(id uint) (*models.Variant, error)
	Create(variant *models.Variant) error
	Update(variant *models.Variant) error
	Delete(id uint) error
	SetActive(ids []uint, active bool) (int64, error)
}

type ProductProvider interface {
	FindByID(id uint) (*models.Product, error)
}

// VariantsHandler is the admin surface for variant CRUD. All writes go
// through VariantAdmin, which reconciles the product's aggregate quantity
// before the admin UI re-reads it.
type VariantsHandler struct {
	repo     VariantAdmin
	products ProductProvider
	log      logrus.FieldLogger
}

func NewVariantsHandler(repo VariantAdmin, products ProductProvider, log logrus.FieldLogger) *VariantsHandler {
	return &VariantsHandler{
		repo:     repo,
		products: products,
		log:      log,
	}
}

type variantInput struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Quantity int    `json:"quantity"`
	IsActive *bool  `json:"is_active"`
	Position int    `json:"position"`
}

func (in *variantInput) validate() string {
	if in.Type != string(models.VariantTypeSize) && in.Type != string(models.VariantTypeColor) {
		return "type must be \"size\" or \"color\""
	}
	if in.Name == "" {
		return "name is required"
	}
	if in.Quantity < 0 {
		return "quantity must not be negative"
	}
	return ""
}

func (h *VariantsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	productID, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var input variantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := input.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := h.products.FindByID(productID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		h.log.WithError(err).Error("failed to load product for variant create")
		writeError(w, http.StatusInternalServerError, "failed to create variant")
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	variant := &models.Variant{
		ProductID: productID,
		Type:      models.VariantType(input.Type),
		Name:      input.Name,
		Value:     input.Value,
		Quantity:  input.Quantity,
		IsActive:  active,
		Position:  input.Position,
	}

	if err := h.repo.Create(variant); err != nil {
		h.log.WithError(err).Error("failed to create variant")
		writeError(w, http.StatusInternalServerError, "failed to create variant")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(variant))
}

func (h *VariantsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	var input variantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := input.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	variant, err := h.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, models.ErrVariantNotFound) {
			writeError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.log.WithError(err).Error("failed to load variant")
		writeError(w, http.StatusInternalServerError, "failed to update variant")
		return
	}

	variant.Type = models.VariantType(input.Type)
	variant.Name = input.Name
	variant.Value = input.Value
	variant.Quantity = input.Quantity
	variant.Position = input.Position
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if err := h.repo.Update(variant); err != nil {
		h.log.WithError(err).Error("failed to update variant")
		writeError(w, http.StatusInternalServerError, "failed to update variant")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(variant))
}

func (h *VariantsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid variant id")
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, models.ErrVariantNotFound) {
			writeError(w, http.StatusNotFound, "variant not found")
			return
		}
		h.log.WithError(err).Error("failed to delete variant")
		writeError(w, http.StatusInternalServerError, "failed to delete variant")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSetStatus is the bulk activate/deactivate action from the admin list
// view.
func (h *VariantsHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	var input struct {
		IDs      []uint `json:"ids"`
		IsActive bool   `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(input.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "ids must not be empty")
		return
	}

	updated, err := h.repo.SetActive(input.IDs, input.IsActive)
	if err != nil {
		h.log.WithError(err).Error("failed to toggle variants")
		writeError(w, http.StatusInternalServerError, "failed to update variants")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"updated":   updated,
		"is_active": input.IsActive,
	})
}

func toResponse(v *models.Variant) VariantResponse {
	return VariantResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		Type:      string(v.Type),
		Name:      v.Name,
		Value:     v.Value,
		Quantity:  v.Quantity,
		IsActive:  v.IsActive,
		Position:  v.Position,
	}
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
