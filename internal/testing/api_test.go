// api_test.go - storefront endpoints exercised over HTTP against the seeded catalog
package testing

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/configurator"
	"storefront/internal/menu"
)

func TestStorefrontAPI(t *testing.T) {
	suite := NewTestSuite(t)

	t.Run("ConfiguratorWithoutSelection", func(t *testing.T) {
		testConfiguratorWithoutSelection(t, suite)
	})
	t.Run("ConfiguratorNarrowsBySelection", func(t *testing.T) {
		testConfiguratorNarrowsBySelection(t, suite)
	})
	t.Run("ConfiguratorConflictingSelection", func(t *testing.T) {
		testConfiguratorConflictingSelection(t, suite)
	})
	t.Run("ConfiguratorTranslated", func(t *testing.T) {
		testConfiguratorTranslated(t, suite)
	})
	t.Run("SingleGroupConfigurator", func(t *testing.T) {
		testSingleGroupConfigurator(t, suite)
	})
	t.Run("ConfiguratorErrors", func(t *testing.T) {
		testConfiguratorErrors(t, suite)
	})
	t.Run("ProductConfigurations", func(t *testing.T) {
		testProductConfigurations(t, suite)
	})
	t.Run("AdvancedMenuJSON", func(t *testing.T) {
		testAdvancedMenuJSON(t, suite)
	})
	t.Run("AdvancedMenuWidget", func(t *testing.T) {
		testAdvancedMenuWidget(t, suite)
	})
	t.Run("Plumbing", func(t *testing.T) {
		testPlumbing(t, suite)
	})
}

// optionState flattens an annotated configurator to option id -> (selected, active).
func optionState(pc configurator.ProductConfigurator) map[int][2]bool {
	out := make(map[int][2]bool)
	for _, g := range pc.Groups {
		for _, o := range g.Options {
			out[o.ID] = [2]bool{o.Selected, o.Active}
		}
	}
	return out
}

func configuratorPath(productID int, query string) string {
	path := fmt.Sprintf("/api/products/%d/configurator", productID)
	if query != "" {
		path += "?" + query
	}
	return path
}

func testConfiguratorWithoutSelection(t *testing.T, suite *TestSuite) {
	var pc configurator.ProductConfigurator
	resp := suite.GetAPI(t, configuratorPath(ProductShirt, ""), &pc)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, ProductShirt, pc.ProductID)
	assert.Equal(t, configurator.TypePicture, pc.Type)
	assert.Empty(t, pc.Selection)
	require.Len(t, pc.Groups, 2)
	assert.Equal(t, "Color", pc.Groups[0].Name)
	assert.Equal(t, "Size", pc.Groups[1].Name)
	assert.Equal(t, "Regular fit", pc.Groups[1].Description)

	for _, g := range pc.Groups {
		assert.False(t, g.Selected, "group %d", g.ID)
		for _, o := range g.Options {
			assert.True(t, o.Active, "option %d", o.ID)
			assert.False(t, o.Selected, "option %d", o.ID)
		}
	}

	red := pc.Groups[0].Options[0]
	require.NotNil(t, red.Media)
	assert.Equal(t, "media/image/shirt-red.jpg", red.Media.Path)
	assert.Equal(t, "Red shirt", red.Media.Description)
	assert.Nil(t, pc.Groups[1].Options[0].Media)
}

func testConfiguratorNarrowsBySelection(t *testing.T, suite *TestSuite) {
	var pc configurator.ProductConfigurator
	resp := suite.GetAPI(t, configuratorPath(ProductShirt, "group[1]=11"), &pc)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, configurator.Selection{GroupColor: OptionRed}, pc.Selection)
	assert.True(t, pc.Groups[0].Selected)
	assert.False(t, pc.Groups[1].Selected)

	// red/M is sold out, so M drops out once red is picked
	assert.Equal(t, map[int][2]bool{
		OptionRed:  {true, true},
		OptionBlue: {false, true},
		OptionS:    {false, true},
		OptionM:    {false, false},
	}, optionState(pc))
}

func testConfiguratorConflictingSelection(t *testing.T, suite *TestSuite) {
	var pc configurator.ProductConfigurator
	resp := suite.GetAPI(t, configuratorPath(ProductShirt, "group[1]=11&group[2]=22"), &pc)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, map[int][2]bool{
		OptionRed:  {true, false},
		OptionBlue: {false, true},
		OptionS:    {false, true},
		OptionM:    {true, false},
	}, optionState(pc))
}

func testConfiguratorTranslated(t *testing.T, suite *TestSuite) {
	var pc configurator.ProductConfigurator
	resp := suite.GetAPI(t, configuratorPath(ProductShirt, fmt.Sprintf("shop=%d", ShopGerman)), &pc)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, "Farbe", pc.Groups[0].Name)
	assert.Equal(t, "Rot", pc.Groups[0].Options[0].Name)
	assert.Equal(t, "Blue", pc.Groups[0].Options[1].Name)
	assert.Equal(t, "Regular fit", pc.Groups[1].Description, "fallback locale fills the gap")
	require.NotNil(t, pc.Groups[0].Options[0].Media)
	assert.Equal(t, "Rotes Shirt", pc.Groups[0].Options[0].Media.Description)

	// the header is honoured as well
	resp, err := suite.Get(configuratorPath(ProductShirt, ""), map[string]string{"X-Shop-ID": "2"})
	suite.AssertNoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	suite.AssertNoError(t, err)
	assert.Contains(t, string(body), `"Farbe"`)
}

func testSingleGroupConfigurator(t *testing.T, suite *TestSuite) {
	var pc configurator.ProductConfigurator
	resp := suite.GetAPI(t, configuratorPath(ProductCap, "group[1]=11"), &pc)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, configurator.TypeSelection, pc.Type)
	require.Len(t, pc.Groups, 1)
	for _, o := range pc.Groups[0].Options {
		assert.True(t, o.Active, "option %d stays choosable in a single-group configurator", o.ID)
		assert.Nil(t, o.Media, "only picture configurators carry media")
	}
	assert.True(t, pc.Groups[0].Options[0].Selected)
}

func testConfiguratorErrors(t *testing.T, suite *TestSuite) {
	cases := []struct {
		name   string
		path   string
		status int
	}{
		{"UnknownProduct", configuratorPath(999, ""), http.StatusNotFound},
		{"InvalidProductID", "/api/products/abc/configurator", http.StatusBadRequest},
		{"InvalidOption", configuratorPath(ProductShirt, "group[1]=red"), http.StatusBadRequest},
		{"InvalidGroup", configuratorPath(ProductShirt, "group[x]=11"), http.StatusBadRequest},
		{"UnknownShop", configuratorPath(ProductShirt, "shop=42"), http.StatusNotFound},
		{"MissingIDs", "/api/products/configurations", http.StatusBadRequest},
		{"UnknownRoute", "/api/nothing-here", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var apiErr struct {
				Code      string `json:"code"`
				RequestID string `json:"request_id"`
			}
			resp, err := suite.Get(tc.path, nil)
			suite.AssertNoError(t, err)
			suite.AssertStatusCode(t, resp, tc.status)
			suite.AssertNoError(t, suite.ParseJSONResponse(resp, &apiErr))
			assert.NotEmpty(t, apiErr.Code)
			assert.NotEmpty(t, apiErr.RequestID)
		})
	}
}

func testProductConfigurations(t *testing.T, suite *TestSuite) {
	var configurations map[string][]configurator.Group
	resp := suite.GetAPI(t, fmt.Sprintf("/api/products/configurations?ids=%d,%d&id=%d", ProductShirt, ProductCap, ProductShirt), &configurations)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Len(t, configurations, 6)
	sw1 := configurations["SW1"]
	require.Len(t, sw1, 2)
	assert.Equal(t, GroupColor, sw1[0].ID)
	assert.Equal(t, []configurator.Option{{ID: OptionRed, Name: "Red", Position: 1}}, sw1[0].Options)
	assert.Equal(t, []configurator.Option{{ID: OptionS, Name: "S", Position: 1}}, sw1[1].Options)

	require.Len(t, configurations["CAP2"], 1)
	assert.Equal(t, OptionBlue, configurations["CAP2"][0].Options[0].ID)
}

func testAdvancedMenuJSON(t *testing.T, suite *TestSuite) {
	var view menu.View
	resp := suite.GetAPI(t, "/api/widgets/advanced-menu", &view)
	suite.AssertStatusCode(t, resp, http.StatusOK)

	assert.Equal(t, 2, view.ColumnAmount)
	assert.Equal(t, 250, view.HoverDelay)

	require.Len(t, view.AdvancedMenu, 2, "hidden and inactive top categories are left out")
	men, women := view.AdvancedMenu[0], view.AdvancedMenu[1]
	assert.Equal(t, "Men", men.Name)
	assert.Equal(t, "Women", women.Name)

	require.Len(t, men.Children, 1)
	assert.True(t, men.Children[0].External)
	assert.Equal(t, "https://blog.example/?a=1&b=2", men.Children[0].Link)

	require.Len(t, women.Children, 1)
	shoes := women.Children[0]
	assert.Equal(t, "/cat/20", shoes.Link)
	require.Len(t, shoes.Children, 1)
	assert.Equal(t, "Sneakers", shoes.Children[0].Name)
	assert.Empty(t, shoes.Children[0].Children, "three levels deep at most")

	resp = suite.GetAPI(t, fmt.Sprintf("/api/widgets/advanced-menu?shop=%d", ShopGerman), &view)
	suite.AssertStatusCode(t, resp, http.StatusOK)
	assert.Equal(t, "Damen", view.AdvancedMenu[1].Name)
}

func testAdvancedMenuWidget(t *testing.T, suite *TestSuite) {
	resp, err := suite.Get("/widgets/advanced-menu", nil)
	suite.AssertNoError(t, err)
	defer resp.Body.Close()
	suite.AssertStatusCode(t, resp, http.StatusOK)

	raw, err := io.ReadAll(resp.Body)
	suite.AssertNoError(t, err)
	html := string(raw)

	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	assert.Contains(t, html, ">Shoes &amp; Socks</a>")
	assert.Contains(t, html, `href="https&#x3A;&#x2F;&#x2F;blog.example&#x2F;&#x3F;a&#x3D;1&amp;b&#x3D;2"`)
	assert.NotContains(t, html, "Service")
	assert.NotContains(t, html, "Archive")
	assert.NotContains(t, html, "Too deep")

	resp, err = suite.Get("/widgets/advanced-menu?shop=42", nil)
	suite.AssertNoError(t, err)
	resp.Body.Close()
	suite.AssertStatusCode(t, resp, http.StatusNotFound)
}

func testPlumbing(t *testing.T, suite *TestSuite) {
	resp, err := suite.Get("/healthz", nil)
	suite.AssertNoError(t, err)
	resp.Body.Close()
	suite.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = suite.Get("/no-such-page", nil)
	suite.AssertNoError(t, err)
	resp.Body.Close()
	suite.AssertStatusCode(t, resp, http.StatusNotFound)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	requestID := "3f2b8c1e-6a4d-4e8f-9b7a-2c5d1e0f4a6b"
	resp, err = suite.Get(configuratorPath(ProductShirt, ""), map[string]string{"X-Request-ID": requestID})
	suite.AssertNoError(t, err)
	resp.Body.Close()
	assert.Equal(t, requestID, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "https://shop.example", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err := http.NewRequest(http.MethodOptions, suite.Server.URL+configuratorPath(ProductShirt, ""), nil)
	suite.AssertNoError(t, err)
	resp, err = suite.Client.Do(req)
	suite.AssertNoError(t, err)
	resp.Body.Close()
	suite.AssertStatusCode(t, resp, http.StatusNoContent)

	assert.Positive(t, suite.App.TotalRequests())
}
