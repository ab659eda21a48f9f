package catalog

import (
	"context"
	"sort"

	"go.uber.org/multierr"

	"github.com/fastchange/fastchange-backend/pkg/logger"
	"github.com/fastchange/fastchange-backend/pkg/pagination"
	"github.com/fastchange/fastchange-backend/pkg/shopify"
)

const (
	adjustmentName   = "available"
	adjustmentReason = "correction"
)

// Gateway is the slice of the admin API the catalog needs.
type Gateway interface {
	GetProducts(ctx context.Context, params pagination.Params) (*shopify.ProductsResult, error)
	UpdateProduct(ctx context.Context, input shopify.ProductUpdateInput) (*shopify.ProductUpdatePayload, error)
	BulkUpdateVariants(ctx context.Context, productID string, variants []shopify.VariantPriceInput) (*shopify.VariantsBulkUpdatePayload, error)
	AdjustQuantities(ctx context.Context, input shopify.InventoryAdjustInput) (*shopify.InventoryAdjustPayload, error)
}

// Dispatcher fans a change set out to the minimal set of admin mutations:
// at most one productUpdate, one variant bulk update, and one inventory
// adjustment per entity, in that order.
type Dispatcher struct {
	gateway Gateway
	logger  *logger.Logger
}

func NewDispatcher(gateway Gateway, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{gateway: gateway, logger: logg}
}

// Apply executes the change set entity by entity in sorted-id order. Remote
// field validation failures and transport failures are both folded into the
// entity's result; a failure never blocks the entity's remaining calls or
// the other entities. The combined transport failures are also returned so
// the caller can log them.
func (d *Dispatcher) Apply(ctx context.Context, changes ChangeSet) ([]MutationResult, error) {
	results := make([]MutationResult, 0, len(changes))
	if len(changes) == 0 {
		return results, nil
	}

	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var transportErrs error
	for _, id := range ids {
		result := d.applyEntity(ctx, id, changes[id])
		for _, resErr := range result.Errors {
			if resErr.Kind == ErrorKindTransport {
				d.logger.Warn(d.logger.WithField(ctx, "product_id", id), "save call failed: "+resErr.Message)
			}
		}
		results = append(results, result)
		transportErrs = multierr.Append(transportErrs, entityTransportError(result))
	}

	return results, transportErrs
}

func (d *Dispatcher) applyEntity(ctx context.Context, id string, changes FieldChanges) MutationResult {
	result := MutationResult{
		ProductID: id,
		Attempted: []MutationGroup{},
		Succeeded: []MutationGroup{},
		Errors:    []ResultError{},
	}

	if changes.HasProductFields() {
		d.applyProductFields(ctx, id, changes, &result)
	}
	if changes.Price != nil {
		d.applyPrice(ctx, id, *changes.Price, &result)
	}
	if changes.Stock != nil {
		d.applyStock(ctx, *changes.Stock, &result)
	}

	return result
}

func (d *Dispatcher) applyProductFields(ctx context.Context, id string, changes FieldChanges, result *MutationResult) {
	result.Attempted = append(result.Attempted, GroupProduct)

	input := shopify.ProductUpdateInput{ID: id}
	if changes.Title != nil {
		input.Title = changes.Title.Value
	}
	if changes.Status != nil {
		input.Status = string(changes.Status.Value)
	}

	payload, err := d.gateway.UpdateProduct(ctx, input)
	if err != nil {
		result.Errors = append(result.Errors, transportError(GroupProduct, err))
		return
	}
	if appendUserErrors(result, payload.UserErrors) {
		return
	}

	result.Succeeded = append(result.Succeeded, GroupProduct)
	if payload.Product != nil {
		updated := result.ensureUpdated()
		updated.Title = &payload.Product.Title
		status := ProductStatus(payload.Product.Status)
		updated.Status = &status
	}
}

func (d *Dispatcher) applyPrice(ctx context.Context, id string, change PriceChange, result *MutationResult) {
	result.Attempted = append(result.Attempted, GroupPrice)

	if change.VariantID == "" {
		result.Errors = append(result.Errors, ResultError{
			Kind:    ErrorKindValidation,
			Field:   []string{FieldPrice},
			Message: "product has no variant to price",
		})
		return
	}

	payload, err := d.gateway.BulkUpdateVariants(ctx, id, []shopify.VariantPriceInput{{
		ID:    change.VariantID,
		Price: change.Value,
	}})
	if err != nil {
		result.Errors = append(result.Errors, transportError(GroupPrice, err))
		return
	}
	if appendUserErrors(result, payload.UserErrors) {
		return
	}

	result.Succeeded = append(result.Succeeded, GroupPrice)
	if len(payload.ProductVariants) > 0 {
		result.ensureUpdated().Price = &payload.ProductVariants[0].Price
	}
}

func (d *Dispatcher) applyStock(ctx context.Context, change StockChange, result *MutationResult) {
	result.Attempted = append(result.Attempted, GroupStock)

	// A shop without any fulfillment location cannot take stock edits; the
	// gateway would reject the call anyway, so fail it before the wire.
	if change.LocationID == "" {
		result.Errors = append(result.Errors, ResultError{
			Kind:    ErrorKindValidation,
			Field:   []string{FieldStock},
			Message: "no fulfillment location available",
		})
		return
	}
	if change.InventoryItemID == "" {
		result.Errors = append(result.Errors, ResultError{
			Kind:    ErrorKindValidation,
			Field:   []string{FieldStock},
			Message: "product has no inventory item",
		})
		return
	}

	payload, err := d.gateway.AdjustQuantities(ctx, shopify.InventoryAdjustInput{
		Name:   adjustmentName,
		Reason: adjustmentReason,
		Changes: []shopify.InventoryChange{{
			InventoryItemID: change.InventoryItemID,
			LocationID:      change.LocationID,
			Delta:           change.Delta,
		}},
	})
	if err != nil {
		result.Errors = append(result.Errors, transportError(GroupStock, err))
		return
	}
	if appendUserErrors(result, payload.UserErrors) {
		return
	}

	result.Succeeded = append(result.Succeeded, GroupStock)
	if payload.InventoryAdjustmentGroup != nil && len(payload.InventoryAdjustmentGroup.Changes) > 0 {
		result.ensureUpdated().AppliedDelta = &payload.InventoryAdjustmentGroup.Changes[0].Delta
	}
}

func (r *MutationResult) ensureUpdated() *UpdatedFields {
	if r.Updated == nil {
		r.Updated = &UpdatedFields{}
	}
	return r.Updated
}

func appendUserErrors(result *MutationResult, userErrors []shopify.UserError) bool {
	if len(userErrors) == 0 {
		return false
	}
	for _, userErr := range userErrors {
		result.Errors = append(result.Errors, ResultError{
			Kind:    ErrorKindValidation,
			Field:   userErr.Field,
			Message: userErr.Message,
		})
	}
	return true
}

func transportError(group MutationGroup, err error) ResultError {
	return ResultError{
		Kind:    ErrorKindTransport,
		Field:   []string{string(group)},
		Message: err.Error(),
	}
}

func entityTransportError(result MutationResult) error {
	for _, resErr := range result.Errors {
		if resErr.Kind == ErrorKindTransport {
			return &SaveCallError{ProductID: result.ProductID, Message: resErr.Message}
		}
	}
	return nil
}

// SaveCallError reports a transport failure for one entity's save, kept for
// the aggregated log line while the per-entity result stays authoritative.
type SaveCallError struct {
	ProductID string
	Message   string
}

func (e *SaveCallError) Error() string {
	return "save " + e.ProductID + ": " + e.Message
}
