package configurator

import "errors"

// Configurator types as stored on a product's configurator set.
const (
	TypeStandard  = 0
	TypeSelection = 1
	TypePicture   = 2
)

// ErrProductNotFound is returned by a Gateway when the product has no configurator.
var ErrProductNotFound = errors.New("product not found")

// Product identifies the product whose configurator is requested.
type Product struct {
	ID        int    `json:"id"`
	VariantID int    `json:"variantId,omitempty"`
	Number    string `json:"number,omitempty"`
}

// Option is one choosable value of a group, e.g. "Red".
type Option struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Group is a configurator attribute, e.g. "Color".
type Group struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Position    int      `json:"position"`
	Options     []Option `json:"options"`
}

// Configurator is the raw tree as returned by the gateway.
type Configurator struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Type      int     `json:"type"`
	Groups    []Group `json:"groups"`
}

// Media is an image attached to an option on picture configurators.
type Media struct {
	ID          int    `json:"id"`
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// Selection maps group id to the chosen option id.
type Selection map[int]int

// Combinations maps an option id to the option ids it may co-occur with.
type Combinations map[int][]int

// AnnotatedOption is an Option with its per-request state.
type AnnotatedOption struct {
	Option
	Selected bool   `json:"selected"`
	Active   bool   `json:"active"`
	Media    *Media `json:"media,omitempty"`
}

// AnnotatedGroup is a Group with its per-request state.
type AnnotatedGroup struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Position    int               `json:"position"`
	Selected    bool              `json:"selected"`
	Options     []AnnotatedOption `json:"options"`
}

// ProductConfigurator is the configurator as the product detail page consumes it.
type ProductConfigurator struct {
	ProductID int              `json:"productId"`
	Name      string           `json:"name"`
	Type      int              `json:"type"`
	Groups    []AnnotatedGroup `json:"groups"`
	Selection Selection        `json:"selection"`
}
