// Package menu builds the storefront's multi-level navigation ("advanced menu").
package menu

import (
	"context"
	"fmt"
	"sort"

	"storefront/internal/shop"
)

// Category is one row of the category tree as loaded from storage.
type Category struct {
	ID       int
	ParentID int
	Name     string
	Position int
	External string
	HideTop  bool
}

// Node is a category in the rendered menu tree.
type Node struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Link     string  `json:"link"`
	External bool    `json:"external"`
	Children []*Node `json:"sub"`
}

// Repository loads active categories below a root, up to depth levels deep,
// with names translated for tc.
type Repository interface {
	GetCategories(ctx context.Context, rootID, depth int, tc shop.TranslationContext) ([]Category, error)
}

// Categories is the flat result of a menu lookup.
type Categories struct {
	items []Category
}

// NewCategories wraps a flat category list.
func NewCategories(items []Category) *Categories {
	return &Categories{items: items}
}

// Len is the number of loaded categories.
func (c *Categories) Len() int {
	return len(c.items)
}

// Tree nests the loaded categories below rootID. Siblings are ordered by
// position, then id. Top-level categories flagged HideTop are left out
// together with their subtrees.
func (c *Categories) Tree(rootID int) []*Node {
	children := make(map[int][]Category)
	for _, cat := range c.items {
		children[cat.ParentID] = append(children[cat.ParentID], cat)
	}
	for parent := range children {
		sort.SliceStable(children[parent], func(i, j int) bool {
			a, b := children[parent][i], children[parent][j]
			if a.Position != b.Position {
				return a.Position < b.Position
			}
			return a.ID < b.ID
		})
	}

	visited := make(map[int]bool)
	var build func(parent int, top bool) []*Node
	build = func(parent int, top bool) []*Node {
		nodes := make([]*Node, 0, len(children[parent]))
		for _, cat := range children[parent] {
			if visited[cat.ID] || (top && cat.HideTop) {
				continue
			}
			visited[cat.ID] = true
			nodes = append(nodes, &Node{
				ID:       cat.ID,
				Name:     cat.Name,
				Link:     link(cat),
				External: cat.External != "",
				Children: build(cat.ID, false),
			})
		}
		return nodes
	}

	return build(rootID, true)
}

func link(cat Category) string {
	if cat.External != "" {
		return cat.External
	}
	return fmt.Sprintf("/cat/%d", cat.ID)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get loads the shop's categories down to the given number of levels. Fewer
// than one level is treated as one.
func (s *Service) Get(ctx context.Context, sc *shop.Context, levels int) (*Categories, error) {
	if levels < 1 {
		levels = 1
	}

	items, err := s.repo.GetCategories(ctx, sc.Shop.CategoryID, levels, sc.Translation)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu categories for shop %d: %w", sc.Shop.ID, err)
	}
	return NewCategories(items), nil
}
