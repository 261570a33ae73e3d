package configurator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"storefront/internal/logger"
	"storefront/internal/shop"
)

// Gateway loads configurator data for products.
type Gateway interface {
	// Get returns the product's groups and options, translated for tc.
	Get(ctx context.Context, product Product, tc shop.TranslationContext) (*Configurator, error)
	// GetProductCombinations returns, per option id, the option ids that
	// co-occur with it in an active variant.
	GetProductCombinations(ctx context.Context, product Product) (Combinations, error)
	// GetConfiguratorMedia returns option images keyed by option id.
	GetConfiguratorMedia(ctx context.Context, product Product, tc shop.TranslationContext) (map[int]Media, error)
	// GetList returns, per variant number, the groups with the one option that variant carries.
	GetList(ctx context.Context, products []Product, tc shop.TranslationContext) (map[string][]Group, error)
}

type Service struct {
	gateway Gateway
}

func NewService(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// GetProductsConfigurations returns the variant configurations of the given products.
func (s *Service) GetProductsConfigurations(ctx context.Context, products []Product, tc shop.TranslationContext) (map[string][]Group, error) {
	if len(products) == 0 {
		return map[string][]Group{}, nil
	}

	configurations, err := s.gateway.GetList(ctx, products, tc)
	if err != nil {
		return nil, fmt.Errorf("failed to load product configurations: %w", err)
	}
	return configurations, nil
}

// GetProductConfigurator loads the product's configurator and annotates it for selection.
func (s *Service) GetProductConfigurator(ctx context.Context, product Product, tc shop.TranslationContext, selection Selection) (*ProductConfigurator, error) {
	var (
		cfg          *Configurator
		combinations Combinations
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cfg, err = s.gateway.Get(gctx, product, tc)
		if err != nil {
			return fmt.Errorf("failed to load configurator for product %d: %w", product.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		combinations, err = s.gateway.GetProductCombinations(gctx, product)
		if err != nil {
			return fmt.Errorf("failed to load combinations for product %d: %w", product.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var media map[int]Media
	if cfg.Type == TypePicture {
		var err error
		media, err = s.gateway.GetConfiguratorMedia(ctx, product, tc)
		if err != nil {
			// Options render without images rather than failing the page.
			logger.LogWarn("Configurator media unavailable for product %d: %v", product.ID, err)
			media = nil
		}
	}

	if selection == nil {
		selection = Selection{}
	}

	return &ProductConfigurator{
		ProductID: cfg.ProductID,
		Name:      cfg.Name,
		Type:      cfg.Type,
		Groups:    Annotate(cfg.Groups, combinations, selection, media),
		Selection: selection,
	}, nil
}
