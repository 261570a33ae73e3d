package configurator

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/shop"
)

// Handler exposes the configurator over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ProductConfiguratorHandler serves GET /api/products/{id}/configurator?group[<gid>]=<oid>.
func (h *Handler) ProductConfiguratorHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middleware.WriteStatusError(w, r, http.StatusMethodNotAllowed, nil)
		return
	}

	sc, ok := shop.FromContext(r.Context())
	if !ok {
		middleware.WriteStatusError(w, r, http.StatusInternalServerError, errors.New("shop context missing"))
		return
	}

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || productID <= 0 {
		middleware.WriteStatusError(w, r, http.StatusBadRequest, fmt.Errorf("invalid product id %q", r.PathValue("id")))
		return
	}

	query := r.URL.Query()
	selection, err := ParseSelection(query)
	if err != nil {
		middleware.WriteStatusError(w, r, http.StatusBadRequest, err)
		return
	}

	product := Product{ID: productID, Number: query.Get("number")}
	result, err := h.service.GetProductConfigurator(r.Context(), product, sc.Translation, selection)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, result)
}

// ProductConfigurationsHandler serves GET /api/products/configurations?id=1&id=2 (or ids=1,2).
func (h *Handler) ProductConfigurationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middleware.WriteStatusError(w, r, http.StatusMethodNotAllowed, nil)
		return
	}

	sc, ok := shop.FromContext(r.Context())
	if !ok {
		middleware.WriteStatusError(w, r, http.StatusInternalServerError, errors.New("shop context missing"))
		return
	}

	products, err := parseProductIDs(r)
	if err != nil {
		middleware.WriteStatusError(w, r, http.StatusBadRequest, err)
		return
	}

	configurations, err := h.service.GetProductsConfigurations(r.Context(), products, sc.Translation)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	middleware.WriteAPISuccess(w, r, configurations)
}

func parseProductIDs(r *http.Request) ([]Product, error) {
	query := r.URL.Query()

	raw := append([]string{}, query["id"]...)
	for _, list := range query["ids"] {
		raw = append(raw, strings.Split(list, ",")...)
	}

	seen := make(map[int]bool, len(raw))
	products := make([]Product, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid product id %q", s)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		products = append(products, Product{ID: id})
	}

	if len(products) == 0 {
		return nil, errors.New("at least one product id is required")
	}
	return products, nil
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrProductNotFound) {
		middleware.WriteStatusError(w, r, http.StatusNotFound, err)
		return
	}
	middleware.WriteStatusError(w, r, http.StatusInternalServerError, err)
}
