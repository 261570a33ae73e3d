package catalog

// Document is the seed catalog as written in catalog.yaml (JSON works too).
type Document struct {
	Shops        []ShopItem        `yaml:"shops" json:"shops"`
	Categories   []CategoryItem    `yaml:"categories" json:"categories"`
	Groups       []GroupItem       `yaml:"groups" json:"groups"`
	Products     []ProductItem     `yaml:"products" json:"products"`
	Translations []TranslationItem `yaml:"translations" json:"translations"`
}

type ShopItem struct {
	ID             int    `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	Locale         string `yaml:"locale" json:"locale"`
	FallbackLocale string `yaml:"fallbackLocale,omitempty" json:"fallbackLocale,omitempty"`
	CategoryID     int    `yaml:"categoryId" json:"categoryId"`
}

type CategoryItem struct {
	ID       int    `yaml:"id" json:"id"`
	ParentID int    `yaml:"parentId,omitempty" json:"parentId,omitempty"` // 0 = tree root
	Name     string `yaml:"name" json:"name"`
	Position int    `yaml:"position,omitempty" json:"position,omitempty"`
	Active   *bool  `yaml:"active,omitempty" json:"active,omitempty"`
	External string `yaml:"external,omitempty" json:"external,omitempty"`
	HideTop  bool   `yaml:"hideTop,omitempty" json:"hideTop,omitempty"`
}

type GroupItem struct {
	ID          int          `yaml:"id" json:"id"`
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Position    int          `yaml:"position,omitempty" json:"position,omitempty"`
	Options     []OptionItem `yaml:"options" json:"options"`
}

type OptionItem struct {
	ID       int    `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Position int    `yaml:"position,omitempty" json:"position,omitempty"`
}

type ProductItem struct {
	ID       int           `yaml:"id" json:"id"`
	Name     string        `yaml:"name" json:"name"`
	Type     string        `yaml:"type,omitempty" json:"type,omitempty"` // standard, selection or picture
	Active   *bool         `yaml:"active,omitempty" json:"active,omitempty"`
	Options  []int         `yaml:"options,omitempty" json:"options,omitempty"`
	Variants []VariantItem `yaml:"variants" json:"variants"`
	Media    []MediaItem   `yaml:"media,omitempty" json:"media,omitempty"`
}

type VariantItem struct {
	ID        int    `yaml:"id" json:"id"`
	Number    string `yaml:"number" json:"number"`
	Active    *bool  `yaml:"active,omitempty" json:"active,omitempty"`
	Main      bool   `yaml:"main,omitempty" json:"main,omitempty"`
	Stock     int    `yaml:"stock,omitempty" json:"stock,omitempty"`
	LastStock bool   `yaml:"lastStock,omitempty" json:"lastStock,omitempty"`
	Options   []int  `yaml:"options" json:"options"`
}

type MediaItem struct {
	ID          int    `yaml:"id" json:"id"`
	Option      int    `yaml:"option" json:"option"`
	Path        string `yaml:"path" json:"path"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Translation object types.
const (
	ObjectGroup    = "configuratorgroup"
	ObjectOption   = "configuratoroption"
	ObjectCategory = "category"
	ObjectMedia    = "media"
)

type TranslationItem struct {
	Type   string `yaml:"type" json:"type"`
	Key    int    `yaml:"key" json:"key"`
	Locale string `yaml:"locale" json:"locale"`
	Field  string `yaml:"field" json:"field"`
	Value  string `yaml:"value" json:"value"`
}

// IsActive treats an unset flag as active.
func IsActive(flag *bool) bool {
	return flag == nil || *flag
}
