package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastchange/fastchange-backend/pkg/pagination"
	"github.com/fastchange/fastchange-backend/pkg/shopify"
)

func productsFixture() *shopify.ProductsResult {
	result := &shopify.ProductsResult{}
	result.Products.PageInfo = pagination.PageInfo{
		HasPreviousPage: false,
		HasNextPage:     true,
		StartCursor:     "start",
		EndCursor:       "end",
	}

	full := shopify.Product{
		ID:             "gid://shopify/Product/1",
		Title:          "Hoodie",
		Status:         "ACTIVE",
		TotalInventory: 12,
	}
	full.Images.Nodes = []shopify.Image{{URL: "https://cdn/img.png", AltText: "hoodie"}}
	variant := shopify.Variant{ID: "gid://shopify/ProductVariant/11", Price: "39.99"}
	variant.InventoryItem.ID = "gid://shopify/InventoryItem/21"
	variant.InventoryItem.Tracked = true
	full.Variants.Edges = []shopify.VariantEdge{{Node: variant}}

	bare := shopify.Product{
		ID:             "gid://shopify/Product/2",
		Title:          "Ghost product",
		Status:         "DRAFT",
		TotalInventory: 0,
	}

	result.Products.Edges = []shopify.ProductEdge{
		{Cursor: "c1", Node: full},
		{Cursor: "c2", Node: bare},
	}
	result.Locations.Edges = []shopify.LocationEdge{
		{Node: shopify.Location{ID: "gid://shopify/Location/31", Name: "Main"}},
	}
	return result
}

func TestListFlattensProducts(t *testing.T) {
	gateway := &fakeGateway{productsResult: productsFixture()}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), pagination.Params{First: 10})
	require.NoError(t, err)

	require.Len(t, page.Products, 2)

	full := page.Products[0]
	assert.Equal(t, "gid://shopify/Product/1", full.ID)
	assert.Equal(t, "c1", full.Cursor)
	assert.Equal(t, StatusActive, full.Status)
	assert.Equal(t, 12, full.Stock)
	assert.Equal(t, 12, full.OriginalStock)
	assert.Equal(t, "39.99", full.Price)
	assert.Equal(t, "https://cdn/img.png", full.Image)
	assert.Equal(t, "gid://shopify/ProductVariant/11", full.VariantID)
	assert.Equal(t, "gid://shopify/InventoryItem/21", full.InventoryItemID)
	assert.Equal(t, "gid://shopify/Location/31", full.LocationID)
	assert.True(t, full.Tracked)
	assert.True(t, full.HasVariant())

	bare := page.Products[1]
	assert.Equal(t, PriceUnavailable, bare.Price, "missing variant degrades to sentinel price")
	assert.Empty(t, bare.VariantID)
	assert.Empty(t, bare.InventoryItemID)
	assert.Empty(t, bare.Image)
	assert.Equal(t, "gid://shopify/Location/31", bare.LocationID, "location applies to every record")
	assert.False(t, bare.HasVariant())

	assert.Equal(t, "end", page.PageInfo.EndCursor, "pageInfo passes through verbatim")
	assert.True(t, page.PageInfo.HasNextPage)
}

func TestListWithoutLocations(t *testing.T) {
	fixture := productsFixture()
	fixture.Locations.Edges = nil
	gateway := &fakeGateway{productsResult: fixture}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	for _, record := range page.Products {
		assert.Empty(t, record.LocationID)
	}
}

func TestListEmptyCatalog(t *testing.T) {
	empty := &shopify.ProductsResult{}
	empty.Products.PageInfo = pagination.PageInfo{StartCursor: "s", EndCursor: "e"}
	gateway := &fakeGateway{productsResult: empty}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	page, err := svc.List(context.Background(), pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, "e", page.PageInfo.EndCursor)
}

func TestListRejectsBothCursors(t *testing.T) {
	gateway := &fakeGateway{}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Params{After: "a", Before: "b"})
	require.Error(t, err)
	assert.Empty(t, gateway.calls, "invalid params must not reach the gateway")
}

func TestListPropagatesGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{productsErr: errors.New("boom")}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	_, err = svc.List(context.Background(), pagination.Params{})
	require.Error(t, err)
}

func TestSaveSwallowsTransportErrorsIntoResults(t *testing.T) {
	gateway := &fakeGateway{updateErr: errors.New("connection reset")}
	svc, err := NewService(gateway, testLogger())
	require.NoError(t, err)

	results, err := svc.Save(context.Background(), ChangeSet{
		"gid://1": {Title: &TitleChange{Value: "x"}},
	})
	require.NoError(t, err, "per-entity isolation: save itself succeeds")
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, ErrorKindTransport, results[0].Errors[0].Kind)
}

func TestNewServiceRequiresGateway(t *testing.T) {
	_, err := NewService(nil, testLogger())
	require.Error(t, err)
}
