package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/promo-pricing-service/internal/cache"
	"github.com/Cheertaboi/promo-pricing-service/internal/metrics"
	"github.com/Cheertaboi/promo-pricing-service/internal/models"
	"github.com/Cheertaboi/promo-pricing-service/internal/pricing"
	"github.com/Cheertaboi/promo-pricing-service/internal/repository"
	"github.com/Cheertaboi/promo-pricing-service/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	m := metrics.NewPricingMetrics(reg)

	catalog := repository.NewMemoryCatalog([]models.Product{
		{ID: "101", Price: 1000, Vendor: "GlowUp", Category: "Beauty Products"},
		{ID: "102", Price: 400, Vendor: "Luma", Category: "Beauty Products"},
		{ID: "103", Price: math.NaN(), Vendor: "Luma", Category: "Beauty Products"},
	})
	offers := service.NewOfferService(repository.NewMemoryOfferRepo(), cache.NewMemoryCache(time.Minute), nil, m, nil)
	projector := pricing.NewProjector(pricing.NewResolver(nil, m))
	prices := service.NewPricingService(catalog, offers, projector, m, nil)

	srv := httptest.NewServer(NewRouter(Dependencies{
		Offers:         offers,
		Pricing:        prices,
		Gatherer:       reg,
		RequestTimeout: 5 * time.Second,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func createOffer(t *testing.T, srv *httptest.Server, body string) models.Offer {
	t.Helper()
	resp, data := do(t, http.MethodPost, srv.URL+"/admin/offers", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	var o models.Offer
	require.NoError(t, json.Unmarshal(data, &o))
	return o
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestOfferLifecycle(t *testing.T) {
	srv := newTestServer(t)

	created := createOffer(t, srv, `{"scope":"SELLER","targetId":" GlowUp ","discountKind":"percentage","discountValue":20,"description":"glow week"}`)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.ScopeSeller, created.Scope)
	assert.Equal(t, "GlowUp", created.TargetID)
	assert.True(t, created.Active)

	resp, data := do(t, http.MethodGet, srv.URL+"/admin/offers/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.Offer
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, created.ID, got.ID)

	resp, data = do(t, http.MethodPut, srv.URL+"/admin/offers/"+created.ID,
		`{"scope":"seller","targetId":"GlowUp","discountKind":"fixed","discountValue":50}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, models.DiscountFixed, got.DiscountKind)

	resp, data = do(t, http.MethodPatch, srv.URL+"/admin/offers/"+created.ID+"/active", `{"active":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &got))
	assert.False(t, got.Active)

	resp, data = do(t, http.MethodGet, srv.URL+"/offers/active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"offers":[]}`, string(data))

	resp, data = do(t, http.MethodGet, srv.URL+"/admin/offers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Offers []models.Offer `json:"offers"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	assert.Len(t, list.Offers, 1)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/admin/offers/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, data = do(t, http.MethodGet, srv.URL+"/admin/offers/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"offer_not_found"}`, string(data))
}

func TestCreateOfferValidation(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown scope", `{"scope":"region","discountKind":"fixed","discountValue":1}`, "scope"},
		{"unknown kind", `{"scope":"global","discountKind":"bogo","discountValue":1}`, "discountKind"},
		{"missing target", `{"scope":"category","discountKind":"fixed","discountValue":1}`, "targetId"},
		{"negative value", `{"scope":"global","discountKind":"fixed","discountValue":-3}`, "discountValue"},
		{"missing value", `{"scope":"global","discountKind":"fixed"}`, "discountValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := do(t, http.MethodPost, srv.URL+"/admin/offers", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))

			var out map[string]string
			require.NoError(t, json.Unmarshal(data, &out))
			assert.Equal(t, "invalid_offer", out["error"])
			assert.Equal(t, tt.field, out["field"])
		})
	}

	resp, data := do(t, http.MethodPost, srv.URL+"/admin/offers", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid_body"}`, string(data))
}

func TestSetActiveRequiresFlag(t *testing.T) {
	srv := newTestServer(t)
	created := createOffer(t, srv, `{"scope":"global","discountKind":"fixed","discountValue":5}`)

	resp, _ := do(t, http.MethodPatch, srv.URL+"/admin/offers/"+created.ID+"/active", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, http.MethodPatch, srv.URL+"/admin/offers/missing/active", `{"active":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProductPrice(t *testing.T) {
	srv := newTestServer(t)
	createOffer(t, srv, `{"scope":"global","discountKind":"percentage","discountValue":5}`)
	seller := createOffer(t, srv, `{"scope":"seller","targetId":"GlowUp","discountKind":"percentage","discountValue":20}`)
	createOffer(t, srv, `{"scope":"product","targetId":"101","discountKind":"fixed","discountValue":150}`)

	resp, data := do(t, http.MethodGet, srv.URL+"/products/101/price", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var res models.PricingResult
	require.NoError(t, json.Unmarshal(data, &res))
	assert.Equal(t, 800.0, res.DiscountedPrice)
	assert.Equal(t, 200.0, res.DiscountAmount)
	assert.Equal(t, 20.0, res.DiscountPercentage)
	require.NotNil(t, res.AppliedOfferID)
	assert.Equal(t, seller.ID, *res.AppliedOfferID)

	resp, data = do(t, http.MethodGet, srv.URL+"/products/999/price", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"product_not_found"}`, string(data))
}

func TestCategoryPrices(t *testing.T) {
	srv := newTestServer(t)
	createOffer(t, srv, `{"scope":"category","targetId":"Beauty Products","discountKind":"percentage","discountValue":10}`)

	resp, data := do(t, http.MethodGet, srv.URL+"/categories/Beauty%20Products/prices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var out struct {
		Prices []models.PricingResult `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Prices, 3)
	assert.Equal(t, 900.0, out.Prices[0].DiscountedPrice)
	assert.Equal(t, 360.0, out.Prices[1].DiscountedPrice)
	assert.Equal(t, models.WarningMalformedPrice, out.Prices[2].Warning)
	assert.Equal(t, 0.0, out.Prices[2].OriginalPrice)

	resp, data = do(t, http.MethodGet, srv.URL+"/categories/Garden/prices", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"prices":[]}`, string(data))
}

func TestQuote(t *testing.T) {
	srv := newTestServer(t)
	createOffer(t, srv, `{"scope":"global","discountKind":"fixed","discountValue":30}`)

	body := `{"products":[
		{"id":"a","price":100,"vendor":"v","category":"c"},
		{"id":"b","price":20},
		{"id":"c"}
	]}`
	resp, data := do(t, http.MethodPost, srv.URL+"/prices/quote", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var out struct {
		Prices []models.PricingResult `json:"prices"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Prices, 3)
	assert.Equal(t, 70.0, out.Prices[0].DiscountedPrice)
	assert.Equal(t, 0.0, out.Prices[1].DiscountedPrice)
	assert.Equal(t, 30.0, out.Prices[1].DiscountAmount)
	assert.Equal(t, models.WarningMalformedPrice, out.Prices[2].Warning)
}

func TestQuoteTooLarge(t *testing.T) {
	srv := newTestServer(t)

	var sb strings.Builder
	sb.WriteString(`{"products":[`)
	for i := 0; i < 1001; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`{"id":"p","price":1}`)
	}
	sb.WriteString(`]}`)

	resp, _ := do(t, http.MethodPost, srv.URL+"/prices/quote", sb.String())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	createOffer(t, srv, `{"scope":"global","discountKind":"fixed","discountValue":1}`)
	do(t, http.MethodGet, srv.URL+"/products/101/price", nil)

	resp, data := do(t, http.MethodGet, srv.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "pricing_resolutions_total")
	assert.Contains(t, string(data), "pricing_offer_writes_total")
}
