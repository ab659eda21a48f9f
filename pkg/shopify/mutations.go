package shopify

const productUpdateMutation = `
mutation productUpdate($input: ProductInput!) {
    productUpdate(input: $input) {
        product {
            id
            title
            status
        }
        userErrors {
            field
            message
        }
    }
}
`

const productVariantsBulkUpdateMutation = `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
    productVariantsBulkUpdate(productId: $productId, variants: $variants) {
        productVariants {
            id
            price
        }
        userErrors {
            field
            message
        }
    }
}
`

const inventoryAdjustQuantitiesMutation = `
mutation adjustQuantities($input: InventoryAdjustQuantitiesInput!) {
    inventoryAdjustQuantities(input: $input) {
        inventoryAdjustmentGroup {
            reason
            changes {
                name
                delta
            }
        }
        userErrors {
            field
            message
        }
    }
}
`
