package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/stylerec/internal/pkg/errcode"
)

type envelope struct {
	Code uint32          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doGet(t *testing.T, router http.Handler, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	var body envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return resp, body
}

func TestRecommendationsEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp, body := doGet(t, router, "/api/v1/recommendations?persona=amekaji&mode=representative")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "no-store", resp.Header().Get("Cache-Control"))

	var result struct {
		Persona string                       `json:"persona"`
		Items   map[string][]json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &result))
	require.Equal(t, "amekaji", result.Persona)
	require.NotEmpty(t, result.Items["top"])
	require.NotEmpty(t, result.Items["shoes"])
	require.Empty(t, result.Items["outer"])
}

func TestRecommendationsDefaultsApply(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	// No query params at all: default persona and representative mode.
	resp, _ := doGet(t, router, "/api/v1/recommendations")
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestRecommendationsUnknownPersona(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp, body := doGet(t, router, "/api/v1/recommendations?persona=nobody&mode=representative")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, uint32(errcode.ErrNotFound), body.Code)
}

func TestRecommendationsBadInput(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	for _, path := range []string{
		"/api/v1/recommendations?mode=teleport",
		"/api/v1/recommendations?category=hat",
		"/api/v1/recommendations?min_price=abc",
		"/api/v1/recommendations?min_price=5000&max_price=1000",
		"/api/v1/recommendations?mode=outfit&outfit_id=-3",
	} {
		resp, body := doGet(t, router, path)
		require.Equal(t, http.StatusBadRequest, resp.Code, path)
		require.Equal(t, uint32(errcode.ErrInvalid), body.Code, path)
	}
}

func TestPriceRangesEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	resp, body := doGet(t, router, "/api/v1/price-ranges")
	require.Equal(t, http.StatusOK, resp.Code)

	var ranges map[string]struct {
		Min int64 `json:"min"`
		Max int64 `json:"max"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &ranges))
	require.Equal(t, int64(5000), ranges["top"].Min)
	require.Equal(t, int64(12000), ranges["top"].Max)
	require.Equal(t, int64(30000), ranges["shoes"].Min)
}

func TestOutfitCreateEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	payload := []byte(`{
		"persona": "amekaji",
		"items": [
			{"category": "top", "product_id": 1},
			{"category": "bottom", "product_id": 3},
			{"category": "shoes", "product_id": 4}
		]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outfits", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	// The created outfit is immediately usable as a recommendation target.
	getResp, _ := doGet(t, router, "/api/v1/recommendations?persona=amekaji&mode=outfit")
	require.Equal(t, http.StatusOK, getResp.Code)
}

func TestOutfitCreateEndpointRejectsMissingSlot(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	payload := []byte(`{"persona": "amekaji", "items": [{"category": "top", "product_id": 1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/outfits", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAssetEndpointUnknownKey(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/assets/nobg_999.png", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHealthAndReload(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/catalog/reload", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}
