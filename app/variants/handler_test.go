package variants

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/wmlepcha/valensita/models"
)

// --- Mocks ---

type MockVariantRepo struct {
	Variants map[uint]*models.Variant
	Err      error

	// Fields to capture call arguments
	lastCreated   *models.Variant
	lastUpdated   *models.Variant
	lastDeletedID uint
	lastSetIDs    []uint
	lastSetActive bool
}

func (m *MockVariantRepo) GetByID(id uint) (*models.Variant, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	v, ok := m.Variants[id]
	if !ok {
		return nil, models.ErrVariantNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *MockVariantRepo) Create(variant *models.Variant) error {
	if m.Err != nil {
		return m.Err
	}
	variant.ID = 101
	m.lastCreated = variant
	return nil
}

func (m *MockVariantRepo) Update(variant *models.Variant) error {
	if m.Err != nil {
		return m.Err
	}
	m.lastUpdated = variant
	return nil
}

func (m *MockVariantRepo) Delete(id uint) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Variants[id]; !ok {
		return models.ErrVariantNotFound
	}
	m.lastDeletedID = id
	return nil
}

func (m *MockVariantRepo) SetActive(ids []uint, active bool) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	m.lastSetIDs = ids
	m.lastSetActive = active

	// Only IDs present in the fixture count as updated rows.
	var affected int64
	for _, id := range ids {
		if _, ok := m.Variants[id]; ok {
			affected++
		}
	}
	return affected, nil
}

type MockProductRepo struct {
	KnownIDs map[uint]bool
}

func (m *MockProductRepo) FindByID(id uint) (*models.Product, error) {
	if !m.KnownIDs[id] {
		return nil, models.ErrProductNotFound
	}
	return &models.Product{ID: id}, nil
}

// --- Helpers ---

func newTestHandler(repo *MockVariantRepo) *VariantsHandler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewVariantsHandler(repo, &MockProductRepo{KnownIDs: map[uint]bool{1: true}}, log)
}

// --- Tests ---

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		productID          string
		body               string
		expectedStatusCode int
		checkRepo          func(t *testing.T, repo *MockVariantRepo)
	}{
		{
			name:               "success defaults to active",
			productID:          "1",
			body:               `{"type": "size", "name": "S", "quantity": 5}`,
			expectedStatusCode: http.StatusCreated,
			checkRepo: func(t *testing.T, repo *MockVariantRepo) {
				assert.NotNil(t, repo.lastCreated)
				assert.Equal(t, uint(1), repo.lastCreated.ProductID)
				assert.Equal(t, models.VariantTypeSize, repo.lastCreated.Type)
				assert.Equal(t, 5, repo.lastCreated.Quantity)
				assert.True(t, repo.lastCreated.IsActive)
			},
		},
		{
			name:               "explicit inactive",
			productID:          "1",
			body:               `{"type": "color", "name": "Black", "value": "#000000", "is_active": false}`,
			expectedStatusCode: http.StatusCreated,
			checkRepo: func(t *testing.T, repo *MockVariantRepo) {
				assert.False(t, repo.lastCreated.IsActive)
				assert.Equal(t, "#000000", repo.lastCreated.Value)
			},
		},
		{
			name:               "invalid type",
			productID:          "1",
			body:               `{"type": "material", "name": "Wool"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "missing name",
			productID:          "1",
			body:               `{"type": "size"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "negative quantity",
			productID:          "1",
			body:               `{"type": "size", "name": "S", "quantity": -1}`,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "unknown product",
			productID:          "42",
			body:               `{"type": "size", "name": "S"}`,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "bad product id",
			productID:          "abc",
			body:               `{"type": "size", "name": "S"}`,
			expectedStatusCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &MockVariantRepo{}
			handler := newTestHandler(repo)
			req := httptest.NewRequest("POST", "/admin/products/"+tc.productID+"/variants", strings.NewReader(tc.body))
			req.SetPathValue("id", tc.productID)
			rec := httptest.NewRecorder()

			handler.HandleCreate(rec, req)

			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkRepo != nil {
				tc.checkRepo(t, repo)
			}
		})
	}
}

func TestHandleUpdate(t *testing.T) {
	repo := &MockVariantRepo{Variants: map[uint]*models.Variant{
		10: {ID: 10, ProductID: 1, Type: models.VariantTypeSize, Name: "S", Quantity: 5, IsActive: true},
	}}
	handler := newTestHandler(repo)

	body := `{"type": "size", "name": "S", "quantity": 8, "is_active": false, "position": 2}`
	req := httptest.NewRequest("PUT", "/admin/variants/10", strings.NewReader(body))
	req.SetPathValue("id", "10")
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, repo.lastUpdated)
	assert.Equal(t, 8, repo.lastUpdated.Quantity)
	assert.False(t, repo.lastUpdated.IsActive)
	assert.Equal(t, 2, repo.lastUpdated.Position)

	var resp VariantResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, uint(10), resp.ID)
	assert.Equal(t, 8, resp.Quantity)
}

func TestHandleUpdateNotFound(t *testing.T) {
	handler := newTestHandler(&MockVariantRepo{Variants: map[uint]*models.Variant{}})

	req := httptest.NewRequest("PUT", "/admin/variants/99", strings.NewReader(`{"type": "size", "name": "S"}`))
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()

	handler.HandleUpdate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDelete(t *testing.T) {
	repo := &MockVariantRepo{Variants: map[uint]*models.Variant{
		10: {ID: 10, ProductID: 1, Type: models.VariantTypeSize, Name: "S"},
	}}
	handler := newTestHandler(repo)

	req := httptest.NewRequest("DELETE", "/admin/variants/10", nil)
	req.SetPathValue("id", "10")
	rec := httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(10), repo.lastDeletedID)

	req = httptest.NewRequest("DELETE", "/admin/variants/11", nil)
	req.SetPathValue("id", "11")
	rec = httptest.NewRecorder()
	handler.HandleDelete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSetStatus(t *testing.T) {
	repo := &MockVariantRepo{Variants: map[uint]*models.Variant{
		1: {ID: 1}, 2: {ID: 2}, 3: {ID: 3},
	}}
	handler := newTestHandler(repo)

	req := httptest.NewRequest("POST", "/admin/variants/status", strings.NewReader(`{"ids": [1, 2, 3], "is_active": false}`))
	rec := httptest.NewRecorder()
	handler.HandleSetStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []uint{1, 2, 3}, repo.lastSetIDs)
	assert.False(t, repo.lastSetActive)

	var resp map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3.0, resp["updated"])

	req = httptest.NewRequest("POST", "/admin/variants/status", strings.NewReader(`{"ids": [], "is_active": true}`))
	rec = httptest.NewRecorder()
	handler.HandleSetStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSetStatusReportsActualUpdates(t *testing.T) {
	repo := &MockVariantRepo{Variants: map[uint]*models.Variant{
		1: {ID: 1}, 2: {ID: 2},
	}}
	handler := newTestHandler(repo)

	req := httptest.NewRequest("POST", "/admin/variants/status", strings.NewReader(`{"ids": [1, 2, 99], "is_active": true}`))
	rec := httptest.NewRecorder()
	handler.HandleSetStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2.0, resp["updated"], "IDs matching no variant must not be reported as updated")
}
