package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/pagination"
	"github.com/fastchange/fastchange-backend/pkg/shopify"
)

type gatewayCall struct {
	operation string
	productID string
}

// fakeGateway records every call and serves scripted responses.
type fakeGateway struct {
	calls []gatewayCall

	productsResult *shopify.ProductsResult
	productsErr    error

	updateInputs  []shopify.ProductUpdateInput
	updatePayload *shopify.ProductUpdatePayload
	updateErr     error

	variantInputs  [][]shopify.VariantPriceInput
	variantPayload *shopify.VariantsBulkUpdatePayload
	variantErr     error

	adjustInputs  []shopify.InventoryAdjustInput
	adjustPayload *shopify.InventoryAdjustPayload
	adjustErr     error
}

func (f *fakeGateway) GetProducts(ctx context.Context, params pagination.Params) (*shopify.ProductsResult, error) {
	f.calls = append(f.calls, gatewayCall{operation: "get_products"})
	if f.productsErr != nil {
		return nil, f.productsErr
	}
	if f.productsResult != nil {
		return f.productsResult, nil
	}
	return &shopify.ProductsResult{}, nil
}

func (f *fakeGateway) UpdateProduct(ctx context.Context, input shopify.ProductUpdateInput) (*shopify.ProductUpdatePayload, error) {
	f.calls = append(f.calls, gatewayCall{operation: "product_update", productID: input.ID})
	f.updateInputs = append(f.updateInputs, input)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if f.updatePayload != nil {
		return f.updatePayload, nil
	}
	return &shopify.ProductUpdatePayload{}, nil
}

func (f *fakeGateway) BulkUpdateVariants(ctx context.Context, productID string, variants []shopify.VariantPriceInput) (*shopify.VariantsBulkUpdatePayload, error) {
	f.calls = append(f.calls, gatewayCall{operation: "variants_bulk_update", productID: productID})
	f.variantInputs = append(f.variantInputs, variants)
	if f.variantErr != nil {
		return nil, f.variantErr
	}
	if f.variantPayload != nil {
		return f.variantPayload, nil
	}
	return &shopify.VariantsBulkUpdatePayload{}, nil
}

func (f *fakeGateway) AdjustQuantities(ctx context.Context, input shopify.InventoryAdjustInput) (*shopify.InventoryAdjustPayload, error) {
	f.calls = append(f.calls, gatewayCall{operation: "inventory_adjust"})
	f.adjustInputs = append(f.adjustInputs, input)
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	if f.adjustPayload != nil {
		return f.adjustPayload, nil
	}
	return &shopify.InventoryAdjustPayload{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func operations(calls []gatewayCall) []string {
	ops := make([]string, len(calls))
	for i, call := range calls {
		ops[i] = call.operation
	}
	return ops
}

func TestApplyEmptyChangeSet(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	results, err := dispatcher.Apply(context.Background(), ChangeSet{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Empty(t, gateway.calls, "empty change set must issue zero calls")
}

func TestApplyStockOnlyChange(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {Stock: &StockChange{InventoryItemID: "inv1", LocationID: "loc1", Delta: 5}},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)

	assert.Equal(t, []string{"inventory_adjust"}, operations(gateway.calls))
	require.Len(t, gateway.adjustInputs, 1)
	input := gateway.adjustInputs[0]
	assert.Equal(t, "available", input.Name)
	assert.Equal(t, "correction", input.Reason)
	require.Len(t, input.Changes, 1)
	assert.Equal(t, shopify.InventoryChange{InventoryItemID: "inv1", LocationID: "loc1", Delta: 5}, input.Changes[0])

	require.Len(t, results, 1)
	assert.Equal(t, "gid://1", results[0].ProductID)
	assert.Empty(t, results[0].Errors)
	assert.Equal(t, []MutationGroup{GroupStock}, results[0].Attempted)
	assert.Equal(t, []MutationGroup{GroupStock}, results[0].Succeeded)
}

func TestApplyCombinesTitleAndStatusIntoOneCall(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {
			Title:  &TitleChange{Value: "Renamed"},
			Status: &StatusChange{Value: StatusDraft},
		},
	}

	_, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)

	assert.Equal(t, []string{"product_update"}, operations(gateway.calls))
	require.Len(t, gateway.updateInputs, 1)
	assert.Equal(t, "Renamed", gateway.updateInputs[0].Title)
	assert.Equal(t, "DRAFT", gateway.updateInputs[0].Status)
}

func TestApplyOmitsAbsentProductFields(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {Status: &StatusChange{Value: StatusActive}},
	}

	_, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)

	require.Len(t, gateway.updateInputs, 1)
	assert.Empty(t, gateway.updateInputs[0].Title, "absent title must not be sent")
	assert.Equal(t, "ACTIVE", gateway.updateInputs[0].Status)
}

func TestApplyOrdersCallsPerEntity(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {
			Title: &TitleChange{Value: "Renamed"},
			Price: &PriceChange{Value: "12.50", VariantID: "v1"},
			Stock: &StockChange{InventoryItemID: "inv1", LocationID: "loc1", Delta: 1},
		},
	}

	_, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)
	assert.Equal(t, []string{"product_update", "variants_bulk_update", "inventory_adjust"}, operations(gateway.calls))
}

func TestApplyProcessesEntitiesInSortedOrder(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://b": {Title: &TitleChange{Value: "B"}},
		"gid://a": {Title: &TitleChange{Value: "A"}},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "gid://a", results[0].ProductID)
	assert.Equal(t, "gid://b", results[1].ProductID)
}

func TestApplyUserErrorsDoNotBlockSiblingCalls(t *testing.T) {
	gateway := &fakeGateway{
		updatePayload: &shopify.ProductUpdatePayload{
			UserErrors: []shopify.UserError{{Field: []string{"title"}, Message: "too long"}},
		},
	}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {
			Title: &TitleChange{Value: "way too long"},
			Price: &PriceChange{Value: "12.50", VariantID: "v1"},
		},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err, "user errors are not transport failures")

	assert.Equal(t, []string{"product_update", "variants_bulk_update"}, operations(gateway.calls))

	require.Len(t, results, 1)
	result := results[0]
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrorKindValidation, result.Errors[0].Kind)
	assert.Equal(t, []string{"title"}, result.Errors[0].Field)
	assert.Equal(t, "too long", result.Errors[0].Message)
	assert.Equal(t, []MutationGroup{GroupProduct, GroupPrice}, result.Attempted)
	assert.Equal(t, []MutationGroup{GroupPrice}, result.Succeeded)
}

func TestApplyFoldsTransportFailureIntoResult(t *testing.T) {
	gateway := &fakeGateway{updateErr: errors.New("connection reset")}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {
			Title: &TitleChange{Value: "Renamed"},
			Price: &PriceChange{Value: "12.50", VariantID: "v1"},
		},
		"gid://2": {Title: &TitleChange{Value: "Other"}},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.Error(t, err, "transport failures surface in the aggregated error")

	// The failed productUpdate neither blocks the price call nor the next entity.
	assert.Equal(t, []string{"product_update", "variants_bulk_update", "product_update"}, operations(gateway.calls))

	require.Len(t, results, 2)
	first := results[0]
	require.Len(t, first.Errors, 1)
	assert.Equal(t, ErrorKindTransport, first.Errors[0].Kind)
	assert.NotContains(t, first.Succeeded, GroupProduct)
	assert.Contains(t, first.Succeeded, GroupPrice, "sibling price call still lands")

	second := results[1]
	require.Len(t, second.Errors, 1, "second entity's update also fails")
	assert.Equal(t, ErrorKindTransport, second.Errors[0].Kind)
}

func TestApplyRejectsStockEditWithoutLocation(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {Stock: &StockChange{InventoryItemID: "inv1", LocationID: "", Delta: 3}},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)

	assert.Empty(t, gateway.adjustInputs, "no gateway call for a location-less stock edit")
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, ErrorKindValidation, results[0].Errors[0].Kind)
	assert.Equal(t, []string{FieldStock}, results[0].Errors[0].Field)
}

func TestApplyRejectsPriceEditWithoutVariant(t *testing.T) {
	gateway := &fakeGateway{}
	dispatcher := NewDispatcher(gateway, testLogger())

	changes := ChangeSet{
		"gid://1": {Price: &PriceChange{Value: "5.00", VariantID: ""}},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)
	assert.Empty(t, gateway.variantInputs)
	require.Len(t, results, 1)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, []string{FieldPrice}, results[0].Errors[0].Field)
}

func TestApplyReturnsPostWriteState(t *testing.T) {
	title := "Renamed"
	gateway := &fakeGateway{
		updatePayload: &shopify.ProductUpdatePayload{
			Product: &shopify.ProductSummary{ID: "gid://1", Title: title, Status: "DRAFT"},
		},
		variantPayload: &shopify.VariantsBulkUpdatePayload{
			ProductVariants: []shopify.VariantSummary{{ID: "v1", Price: "12.50"}},
		},
		adjustPayload: &shopify.InventoryAdjustPayload{
			InventoryAdjustmentGroup: &shopify.InventoryAdjustmentGroup{
				Reason:  "correction",
				Changes: []shopify.AdjustmentChange{{Name: "available", Delta: 5}},
			},
		},
	}

	dispatcher := NewDispatcher(gateway, testLogger())
	changes := ChangeSet{
		"gid://1": {
			Title: &TitleChange{Value: title},
			Price: &PriceChange{Value: "12.50", VariantID: "v1"},
			Stock: &StockChange{InventoryItemID: "inv1", LocationID: "loc1", Delta: 5},
		},
	}

	results, err := dispatcher.Apply(context.Background(), changes)
	require.NoError(t, err)
	require.Len(t, results, 1)

	updated := results[0].Updated
	require.NotNil(t, updated)
	assert.Equal(t, title, *updated.Title)
	assert.Equal(t, StatusDraft, *updated.Status)
	assert.Equal(t, "12.50", *updated.Price)
	assert.Equal(t, 5, *updated.AppliedDelta)
}
