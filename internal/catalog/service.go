package catalog

import (
	"context"

	pkgerrors "github.com/fastchange/fastchange-backend/pkg/errors"
	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/pagination"
	"github.com/fastchange/fastchange-backend/pkg/shopify"
)

// Service exposes the bulk editor's two operations: list a page of
// products and apply an accumulated change set.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*Page, error)
	Save(ctx context.Context, changes ChangeSet) ([]MutationResult, error)
}

type service struct {
	gateway    Gateway
	dispatcher *Dispatcher
	logger     *logger.Logger
}

func NewService(gateway Gateway, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "catalog gateway is required")
	}
	return &service{
		gateway:    gateway,
		dispatcher: NewDispatcher(gateway, logg),
		logger:     logg,
	}, nil
}

// List fetches one page and flattens each node into an editable record.
// Missing variants or images degrade to sentinel values instead of failing
// the page; a missing fulfillment location leaves every record's location
// empty, which blocks stock edits at save time.
func (s *service) List(ctx context.Context, params pagination.Params) (*Page, error) {
	params, err := params.Normalize()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid pagination")
	}

	result, err := s.gateway.GetProducts(ctx, params)
	if err != nil {
		return nil, err
	}

	locationID := ""
	if len(result.Locations.Edges) > 0 {
		locationID = result.Locations.Edges[0].Node.ID
	}

	products := make([]ProductRecord, 0, len(result.Products.Edges))
	for _, edge := range result.Products.Edges {
		products = append(products, flattenProduct(edge, locationID))
	}

	return &Page{
		Products: products,
		PageInfo: result.Products.PageInfo,
	}, nil
}

// Save replays the change set against the gateway. Per-entity failures are
// carried inside the results; only a fully unusable request errors out.
func (s *service) Save(ctx context.Context, changes ChangeSet) ([]MutationResult, error) {
	results, transportErrs := s.dispatcher.Apply(ctx, changes)
	if transportErrs != nil {
		s.logger.Error(ctx, "save completed with transport failures", transportErrs)
	}
	return results, nil
}

func flattenProduct(edge shopify.ProductEdge, locationID string) ProductRecord {
	node := edge.Node

	record := ProductRecord{
		ID:            node.ID,
		Cursor:        edge.Cursor,
		Title:         node.Title,
		Status:        ProductStatus(node.Status),
		Stock:         node.TotalInventory,
		OriginalStock: node.TotalInventory,
		Price:         PriceUnavailable,
		LocationID:    locationID,
	}

	if len(node.Images.Nodes) > 0 {
		record.Image = node.Images.Nodes[0].URL
		record.AltText = node.Images.Nodes[0].AltText
	}

	if len(node.Variants.Edges) > 0 {
		variant := node.Variants.Edges[0].Node
		record.VariantID = variant.ID
		if variant.Price != "" {
			record.Price = variant.Price
		}
		record.InventoryItemID = variant.InventoryItem.ID
		record.Tracked = variant.InventoryItem.Tracked
	}

	return record
}
