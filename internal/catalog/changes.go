package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/fastchange/fastchange-backend/pkg/errors"
)

// Editable field names as they appear on the save wire format.
const (
	FieldTitle  = "title"
	FieldStatus = "status"
	FieldPrice  = "price"
	FieldStock  = "stock"
)

// TitleChange replaces the product title.
type TitleChange struct {
	Value string `json:"value"`
}

// StatusChange flips the product between ACTIVE and DRAFT.
type StatusChange struct {
	Value ProductStatus `json:"value"`
}

// PriceChange updates the first variant's price. The variant id is captured
// at edit time so the change targets the variant the merchant was looking at.
type PriceChange struct {
	Value     string `json:"value"`
	VariantID string `json:"variantId"`
}

// StockChange adjusts available inventory by a delta relative to the stock
// baseline snapshotted at fetch time.
type StockChange struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Delta           int    `json:"delta"`
}

// GenericChange is the fallback shape for future simple scalar fields.
type GenericChange struct {
	Value string `json:"value"`
}

// FieldChanges is the sparse set of pending edits for one product. Each
// entry fully replaces any prior entry for that field.
type FieldChanges struct {
	Title  *TitleChange
	Status *StatusChange
	Price  *PriceChange
	Stock  *StockChange
	Other  map[string]GenericChange
}

// Empty reports whether no field was touched.
func (fc FieldChanges) Empty() bool {
	return fc.Title == nil && fc.Status == nil && fc.Price == nil && fc.Stock == nil && len(fc.Other) == 0
}

// HasProductFields reports whether the title/status mutation is needed.
func (fc FieldChanges) HasProductFields() bool {
	return fc.Title != nil || fc.Status != nil
}

// MarshalJSON renders the wire shape keyed by field name.
func (fc FieldChanges) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 4+len(fc.Other))
	if fc.Title != nil {
		out[FieldTitle] = fc.Title
	}
	if fc.Status != nil {
		out[FieldStatus] = fc.Status
	}
	if fc.Price != nil {
		out[FieldPrice] = fc.Price
	}
	if fc.Stock != nil {
		out[FieldStock] = fc.Stock
	}
	for name, change := range fc.Other {
		out[name] = change
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire shape, routing known fields to their typed
// variants and anything else to the generic fallback.
func (fc *FieldChanges) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*fc = FieldChanges{}
	for name, value := range raw {
		switch name {
		case FieldTitle:
			var change TitleChange
			if err := json.Unmarshal(value, &change); err != nil {
				return fmt.Errorf("decode title change: %w", err)
			}
			fc.Title = &change
		case FieldStatus:
			var change StatusChange
			if err := json.Unmarshal(value, &change); err != nil {
				return fmt.Errorf("decode status change: %w", err)
			}
			status, err := ParseProductStatus(string(change.Value))
			if err != nil {
				return err
			}
			change.Value = status
			fc.Status = &change
		case FieldPrice:
			var change PriceChange
			if err := json.Unmarshal(value, &change); err != nil {
				return fmt.Errorf("decode price change: %w", err)
			}
			fc.Price = &change
		case FieldStock:
			var change StockChange
			if err := json.Unmarshal(value, &change); err != nil {
				return fmt.Errorf("decode stock change: %w", err)
			}
			fc.Stock = &change
		default:
			var change GenericChange
			if err := json.Unmarshal(value, &change); err != nil {
				return fmt.Errorf("decode %s change: %w", name, err)
			}
			if fc.Other == nil {
				fc.Other = make(map[string]GenericChange)
			}
			fc.Other[name] = change
		}
	}
	return nil
}

// ChangeSet accumulates pending edits per product id. A product appears
// only once at least one of its fields was touched. The set belongs to a
// single editor session and is not safe for concurrent mutation.
type ChangeSet map[string]FieldChanges

// Record registers one edit. The originating record supplies the ids and
// stock baseline captured at edit time; the last write per field wins.
func (cs ChangeSet) Record(id, field string, value any, rec ProductRecord) error {
	entry := cs[id]

	switch field {
	case FieldTitle:
		text, err := stringValue(value)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid title")
		}
		entry.Title = &TitleChange{Value: text}
	case FieldStatus:
		text, err := stringValue(value)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		status, err := ParseProductStatus(text)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		entry.Status = &StatusChange{Value: status}
	case FieldPrice:
		price, err := normalizePrice(value)
		if err != nil {
			return err
		}
		entry.Price = &PriceChange{Value: price, VariantID: rec.VariantID}
	case FieldStock:
		newStock, err := intValue(value)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid stock")
		}
		entry.Stock = &StockChange{
			InventoryItemID: rec.InventoryItemID,
			LocationID:      rec.LocationID,
			Delta:           newStock - rec.OriginalStock,
		}
	default:
		text, err := stringValue(value)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid %s", field))
		}
		if entry.Other == nil {
			entry.Other = make(map[string]GenericChange)
		}
		entry.Other[field] = GenericChange{Value: text}
	}

	cs[id] = entry
	return nil
}

func normalizePrice(value any) (string, error) {
	var parsed decimal.Decimal
	switch v := value.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		parsed = d
	case float64:
		parsed = decimal.NewFromFloat(v)
	case int:
		parsed = decimal.NewFromInt(int64(v))
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported price type %T", value))
	}
	if parsed.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	return parsed.String(), nil
}

func stringValue(value any) (string, error) {
	text, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expected string, got %T", value)
	}
	return text, nil
}

func intValue(value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", value)
	}
}
