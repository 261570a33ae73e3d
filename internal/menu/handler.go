package menu

import (
	"bytes"
	"errors"
	"net/http"
	"text/template"

	"storefront/internal/config"
	"storefront/internal/escaper"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/shop"
)

const widgetTemplate = `{{define "nodes"}}<ul class="menu--list menu--level-{{.Level}}">
{{- range .Nodes}}
<li class="menu--list-item"><a class="menu--list-item-link" href="{{escapeHtmlAttr .Link}}" title="{{escapeHtmlAttr .Name}}"{{if .External}} target="_blank" rel="noopener"{{end}}>{{escapeHtml .Name}}</a>
{{- if .Children}}{{template "nodes" (sub .Children $.Level)}}{{end}}</li>
{{- end}}
</ul>{{end -}}
<div class="advanced-menu" data-columns="{{escapeHtmlAttr .ColumnAmount}}" data-hover-delay="{{escapeHtmlAttr .HoverDelay}}">
{{template "nodes" (sub .Tree -1)}}
</div>
`

// View is what the menu widget assigns to its template / JSON body.
type View struct {
	AdvancedMenu []*Node `json:"advancedMenu"`
	ColumnAmount int     `json:"columnAmount"`
	HoverDelay   int     `json:"hoverDelay"`
}

type level struct {
	Nodes []*Node
	Level int
}

// Handler serves the advanced menu widget.
type Handler struct {
	service *Service
	config  config.MenuConfig
	tpl     *template.Template
}

func NewHandler(service *Service, cfg config.MenuConfig, esc *escaper.Escaper) *Handler {
	funcs := esc.FuncMap()
	funcs["sub"] = func(nodes []*Node, parentLevel int) level {
		return level{Nodes: nodes, Level: parentLevel + 1}
	}

	return &Handler{
		service: service,
		config:  cfg,
		tpl:     template.Must(template.New("advanced-menu").Funcs(funcs).Parse(widgetTemplate)),
	}
}

func (h *Handler) view(r *http.Request) (*View, error) {
	sc, ok := shop.FromContext(r.Context())
	if !ok {
		return nil, errors.New("shop context missing")
	}

	categories, err := h.service.Get(r.Context(), sc, h.config.Levels)
	if err != nil {
		return nil, err
	}

	return &View{
		AdvancedMenu: categories.Tree(sc.Shop.CategoryID),
		ColumnAmount: h.config.ColumnAmount,
		HoverDelay:   h.config.HoverDelay,
	}, nil
}

// JSONHandler serves GET /api/widgets/advanced-menu.
func (h *Handler) JSONHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		middleware.WriteStatusError(w, r, http.StatusMethodNotAllowed, nil)
		return
	}

	v, err := h.view(r)
	if err != nil {
		middleware.WriteStatusError(w, r, http.StatusInternalServerError, err)
		return
	}
	middleware.WriteAPISuccess(w, r, v)
}

// WidgetHandler serves GET /widgets/advanced-menu as an HTML fragment.
func (h *Handler) WidgetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	v, err := h.view(r)
	if err != nil {
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		http.Error(w, "Menu unavailable", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	data := map[string]any{
		"Tree":         v.AdvancedMenu,
		"ColumnAmount": v.ColumnAmount,
		"HoverDelay":   v.HoverDelay,
	}
	if err := h.tpl.Execute(&buf, data); err != nil {
		logger.LogHTTPError(r, http.StatusInternalServerError, err)
		http.Error(w, "Menu unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
