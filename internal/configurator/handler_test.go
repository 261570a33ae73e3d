package configurator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/middleware"
	"storefront/internal/shop"
)

func newTestMux(gw Gateway) *http.ServeMux {
	h := NewHandler(NewService(gw))
	withShop := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			sc := shop.NewContext(shop.Shop{ID: 1, Locale: "en_GB", CategoryID: 3})
			next(w, r.WithContext(shop.WithContext(r.Context(), sc)))
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/products/{id}/configurator", middleware.API(withShop(h.ProductConfiguratorHandler)))
	mux.HandleFunc("/api/products/configurations", middleware.API(withShop(h.ProductConfigurationsHandler)))
	return mux
}

type configuratorResponse struct {
	Success bool                `json:"success"`
	Data    ProductConfigurator `json:"data"`
}

func TestProductConfiguratorHandler(t *testing.T) {
	mux := newTestMux(&stubGateway{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/1/configurator?group[1]=11", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body configuratorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, Selection{colorGroup: optRed}, body.Data.Selection)

	opts := byID(body.Data.Groups)
	assert.True(t, opts[optRed].Selected)
	assert.True(t, opts[optS].Active)
	assert.False(t, opts[optM].Active)
}

func TestProductConfiguratorHandlerErrors(t *testing.T) {
	mux := newTestMux(&stubGateway{})

	cases := map[string]struct {
		method string
		target string
		status int
		code   string
	}{
		"bad product id":  {"GET", "/api/products/abc/configurator", http.StatusBadRequest, "bad_request"},
		"bad selection":   {"GET", "/api/products/1/configurator?group[1]=red", http.StatusBadRequest, "bad_request"},
		"unknown product": {"GET", "/api/products/2/configurator", http.StatusNotFound, "not_found"},
		"wrong method":    {"POST", "/api/products/1/configurator", http.StatusMethodNotAllowed, "method_not_allowed"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))

			assert.Equal(t, tc.status, rec.Code)
			var body middleware.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Code)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestProductConfigurationsHandler(t *testing.T) {
	gw := &stubGateway{}
	mux := newTestMux(gw)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/configurations?id=1&ids=1,3", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []Product{{ID: 1}, {ID: 3}}, gw.listProducts)

	var body struct {
		Data map[string][]Group `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Data, "SW1.1")

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/configurations", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/api/products/configurations?ids=1,x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
