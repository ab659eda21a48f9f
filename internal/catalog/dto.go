package catalog

import (
	"fmt"
	"strings"

	"github.com/fastchange/fastchange-backend/pkg/pagination"
)

// PriceUnavailable marks a product without any variant to price.
const PriceUnavailable = "N/A"

// ProductStatus is the publication state of a product.
type ProductStatus string

const (
	StatusActive ProductStatus = "ACTIVE"
	StatusDraft  ProductStatus = "DRAFT"
)

// ParseProductStatus validates a raw status value.
func ParseProductStatus(raw string) (ProductStatus, error) {
	switch ProductStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusActive:
		return StatusActive, nil
	case StatusDraft:
		return StatusDraft, nil
	default:
		return "", fmt.Errorf("unknown product status %q", raw)
	}
}

// ProductRecord is one editable row of the listing: the first image and
// first variant of a product flattened together with the fulfillment
// location. Records are rebuilt from scratch on every fetch.
type ProductRecord struct {
	ID              string        `json:"id"`
	Cursor          string        `json:"cursor"`
	Title           string        `json:"title"`
	Image           string        `json:"image"`
	AltText         string        `json:"altText"`
	Status          ProductStatus `json:"status"`
	Stock           int           `json:"stock"`
	OriginalStock   int           `json:"originalStock"`
	Price           string        `json:"price"`
	VariantID       string        `json:"variantId"`
	InventoryItemID string        `json:"inventoryItemId"`
	LocationID      string        `json:"locationId"`
	Tracked         bool          `json:"tracked"`
}

// HasVariant reports whether the product had at least one variant at fetch
// time. Price and stock edits require one.
func (p ProductRecord) HasVariant() bool {
	return p.VariantID != ""
}

// Page is one page of the product listing.
type Page struct {
	Products []ProductRecord     `json:"products"`
	PageInfo pagination.PageInfo `json:"pageInfo"`
}

// MutationGroup names one of the three remote calls a save can fan out to.
type MutationGroup string

const (
	GroupProduct MutationGroup = "product"
	GroupPrice   MutationGroup = "price"
	GroupStock   MutationGroup = "stock"
)

// ErrorKind separates remote field validation failures from transport
// failures folded into a result.
type ErrorKind string

const (
	ErrorKindValidation ErrorKind = "validation"
	ErrorKindTransport  ErrorKind = "transport"
)

// ResultError is one failure attached to an entity's save result.
type ResultError struct {
	Kind    ErrorKind `json:"kind"`
	Field   []string  `json:"field,omitempty"`
	Message string    `json:"message"`
}

// UpdatedFields carries the post-write authoritative values echoed by the
// gateway, so callers can refresh their view without re-fetching into the
// remote's read-after-write lag.
type UpdatedFields struct {
	Title        *string        `json:"title,omitempty"`
	Status       *ProductStatus `json:"status,omitempty"`
	Price        *string        `json:"price,omitempty"`
	AppliedDelta *int           `json:"appliedDelta,omitempty"`
}

// MutationResult is the aggregated outcome of one entity's save.
type MutationResult struct {
	ProductID string          `json:"productId"`
	Attempted []MutationGroup `json:"attempted"`
	Succeeded []MutationGroup `json:"succeeded"`
	Updated   *UpdatedFields  `json:"updated,omitempty"`
	Errors    []ResultError   `json:"errors"`
}

// OK reports whether every attempted call for the entity succeeded.
func (r MutationResult) OK() bool {
	return len(r.Errors) == 0
}
