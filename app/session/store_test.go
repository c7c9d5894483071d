package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	found, err := store.Get("s1", "cart", &payload{})
	assert.NoError(t, err)
	assert.False(t, found, "missing key reports absent, not error")

	assert.NoError(t, store.Put("s1", "cart", payload{Name: "a", Count: 2}))

	var got payload
	found, err = store.Get("s1", "cart", &got)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "a", Count: 2}, got)

	// Sessions do not share keys.
	found, err = store.Get("s2", "cart", &got)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreForget(t *testing.T) {
	store := NewMemoryStore()

	assert.NoError(t, store.Put("s1", "cart", map[string]int{"x": 1}))
	assert.NoError(t, store.Forget("s1", "cart"))

	var got map[string]int
	found, err := store.Get("s1", "cart", &got)
	assert.NoError(t, err)
	assert.False(t, found)

	// Forgetting what is not there is fine.
	assert.NoError(t, store.Forget("s1", "cart"))
	assert.NoError(t, store.Forget("never-seen", "cart"))
}

func TestMiddlewareMintsSessionCookie(t *testing.T) {
	var seenID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, seenID)

	cookies := rec.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, seenID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestMiddlewareReusesExistingCookie(t *testing.T) {
	var seenID string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = FromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "existing-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "existing-id", seenID)
	assert.Empty(t, rec.Result().Cookies(), "no new cookie when one is present")
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "", FromContext(req.Context()))
}
