package shopify

import "github.com/fastchange/fastchange-backend/pkg/pagination"

// UserError is a field-level validation failure returned by an admin
// mutation, distinct from a transport failure.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// Product is one node of the products listing, trimmed to the fields the
// bulk editor works with.
type Product struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Status         string `json:"status"`
	TotalInventory int    `json:"totalInventory"`
	Images         struct {
		Nodes []Image `json:"nodes"`
	} `json:"images"`
	Variants struct {
		Edges []VariantEdge `json:"edges"`
	} `json:"variants"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type VariantEdge struct {
	Node Variant `json:"node"`
}

type Variant struct {
	ID            string `json:"id"`
	Price         string `json:"price"`
	InventoryItem struct {
		ID      string `json:"id"`
		Tracked bool   `json:"tracked"`
	} `json:"inventoryItem"`
}

type ProductEdge struct {
	Cursor string  `json:"cursor"`
	Node   Product `json:"node"`
}

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LocationEdge struct {
	Node Location `json:"node"`
}

// ProductsResult is the combined products+locations query payload.
type ProductsResult struct {
	Products struct {
		PageInfo pagination.PageInfo `json:"pageInfo"`
		Edges    []ProductEdge       `json:"edges"`
	} `json:"products"`
	Locations struct {
		Edges []LocationEdge `json:"edges"`
	} `json:"locations"`
}

// ProductUpdateInput carries the product id plus whichever of title/status
// changed. Absent fields are omitted from the mutation input entirely.
type ProductUpdateInput struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Status string `json:"status,omitempty"`
}

// ProductSummary is the post-write product state echoed by productUpdate.
type ProductSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type ProductUpdatePayload struct {
	Product    *ProductSummary `json:"product"`
	UserErrors []UserError     `json:"userErrors"`
}

// VariantPriceInput updates a single variant's price.
type VariantPriceInput struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

// VariantSummary is the post-write variant state echoed by the bulk update.
type VariantSummary struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

type VariantsBulkUpdatePayload struct {
	ProductVariants []VariantSummary `json:"productVariants"`
	UserErrors      []UserError      `json:"userErrors"`
}

// InventoryChange is one inventory delta scoped to an item and location.
type InventoryChange struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Delta           int    `json:"delta"`
}

// InventoryAdjustInput is the inventoryAdjustQuantities mutation input.
type InventoryAdjustInput struct {
	Name    string            `json:"name"`
	Reason  string            `json:"reason"`
	Changes []InventoryChange `json:"changes"`
}

// AdjustmentChange echoes one applied quantity change.
type AdjustmentChange struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

// InventoryAdjustmentGroup is the post-write adjustment state.
type InventoryAdjustmentGroup struct {
	Reason  string             `json:"reason"`
	Changes []AdjustmentChange `json:"changes"`
}

type InventoryAdjustPayload struct {
	InventoryAdjustmentGroup *InventoryAdjustmentGroup `json:"inventoryAdjustmentGroup"`
	UserErrors               []UserError               `json:"userErrors"`
}
