package configurator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/shop"
)

// stubGateway serves a fixed configurator for product 1.
type stubGateway struct {
	cfgType      int
	combosErr    error
	mediaErr     error
	mediaCalls   int32
	lastTC       shop.TranslationContext
	listProducts []Product
}

func (g *stubGateway) Get(_ context.Context, product Product, tc shop.TranslationContext) (*Configurator, error) {
	if product.ID != 1 {
		return nil, fmt.Errorf("product %d: %w", product.ID, ErrProductNotFound)
	}
	g.lastTC = tc
	return &Configurator{ProductID: 1, Name: "Shirt", Type: g.cfgType, Groups: colorSizeGroups()}, nil
}

func (g *stubGateway) GetProductCombinations(_ context.Context, _ Product) (Combinations, error) {
	if g.combosErr != nil {
		return nil, g.combosErr
	}
	return colorSizeCombinations(), nil
}

func (g *stubGateway) GetConfiguratorMedia(_ context.Context, _ Product, _ shop.TranslationContext) (map[int]Media, error) {
	atomic.AddInt32(&g.mediaCalls, 1)
	if g.mediaErr != nil {
		return nil, g.mediaErr
	}
	return map[int]Media{optRed: {ID: 1, Path: "media/red.jpg"}}, nil
}

func (g *stubGateway) GetList(_ context.Context, products []Product, _ shop.TranslationContext) (map[string][]Group, error) {
	g.listProducts = products
	return map[string][]Group{
		"SW1.1": {{ID: colorGroup, Name: "Color", Options: []Option{{ID: optRed, Name: "Red"}}}},
	}, nil
}

var tc = shop.TranslationContext{ShopID: 1, Locale: "en_GB"}

func TestGetProductConfigurator(t *testing.T) {
	gw := &stubGateway{cfgType: TypeStandard}
	svc := NewService(gw)

	result, err := svc.GetProductConfigurator(context.Background(), Product{ID: 1}, tc, Selection{colorGroup: optRed})
	require.NoError(t, err)

	assert.Equal(t, "Shirt", result.Name)
	assert.Equal(t, Selection{colorGroup: optRed}, result.Selection)
	assert.Equal(t, tc, gw.lastTC)
	assert.Zero(t, atomic.LoadInt32(&gw.mediaCalls), "media only loads for picture configurators")

	opts := byID(result.Groups)
	assert.True(t, opts[optS].Active)
	assert.False(t, opts[optM].Active)
	assert.Nil(t, opts[optRed].Media)
}

func TestGetProductConfiguratorPictureType(t *testing.T) {
	gw := &stubGateway{cfgType: TypePicture}
	svc := NewService(gw)

	result, err := svc.GetProductConfigurator(context.Background(), Product{ID: 1}, tc, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&gw.mediaCalls))
	assert.NotNil(t, result.Selection)
	opts := byID(result.Groups)
	require.NotNil(t, opts[optRed].Media)
	assert.Equal(t, "media/red.jpg", opts[optRed].Media.Path)
}

func TestGetProductConfiguratorMediaFailureDegrades(t *testing.T) {
	gw := &stubGateway{cfgType: TypePicture, mediaErr: errors.New("disk on fire")}
	svc := NewService(gw)

	result, err := svc.GetProductConfigurator(context.Background(), Product{ID: 1}, tc, nil)
	require.NoError(t, err)
	for _, o := range byID(result.Groups) {
		assert.Nil(t, o.Media)
	}
}

func TestGetProductConfiguratorErrors(t *testing.T) {
	t.Run("unknown product", func(t *testing.T) {
		svc := NewService(&stubGateway{})
		_, err := svc.GetProductConfigurator(context.Background(), Product{ID: 2}, tc, nil)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("combination load fails", func(t *testing.T) {
		boom := errors.New("boom")
		svc := NewService(&stubGateway{combosErr: boom})
		_, err := svc.GetProductConfigurator(context.Background(), Product{ID: 1}, tc, nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestGetProductsConfigurations(t *testing.T) {
	gw := &stubGateway{}
	svc := NewService(gw)

	empty, err := svc.GetProductsConfigurations(context.Background(), nil, tc)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Nil(t, gw.listProducts, "gateway is not asked for an empty list")

	list, err := svc.GetProductsConfigurations(context.Background(), []Product{{ID: 1}}, tc)
	require.NoError(t, err)
	require.Contains(t, list, "SW1.1")
	assert.Equal(t, "Red", list["SW1.1"][0].Options[0].Name)
}
