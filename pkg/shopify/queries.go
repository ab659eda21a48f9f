package shopify

// The products query is issued in one of three forms depending on the
// requested paging direction. The locations block rides along so the
// listing can resolve the fulfillment location in a single round trip.

const productsQueryFirst = `
query getProducts($first: Int) {
    products(first: $first) {
` + productsSelection + `
    }
` + locationsSelection + `
}
`

const productsQueryAfter = `
query getProducts($first: Int, $after: String) {
    products(first: $first, after: $after) {
` + productsSelection + `
    }
` + locationsSelection + `
}
`

const productsQueryBefore = `
query getProducts($last: Int, $before: String) {
    products(last: $last, before: $before) {
` + productsSelection + `
    }
` + locationsSelection + `
}
`

const productsSelection = `        pageInfo {
            hasPreviousPage
            hasNextPage
            startCursor
            endCursor
        }
        edges {
            cursor
            node {
                id
                title
                status
                totalInventory
                images(first: 1) {
                    nodes {
                        url
                        altText
                    }
                }
                variants(first: 1) {
                    edges {
                        node {
                            id
                            price
                            inventoryItem {
                                id
                                tracked
                            }
                        }
                    }
                }
            }
        }`

const locationsSelection = `    locations(first: 1) {
        edges {
            node {
                id
                name
            }
        }
    }`
