package domain

import "context"

// SharedProductRepository is the client surface of the crowd-sourced document
// store. Search failures degrade to not-found; save-path failures propagate.
type SharedProductRepository interface {
	// EnsureSession authenticates anonymously and returns the session user id.
	// Idempotent: an existing session is reused.
	EnsureSession(ctx context.Context) (string, error)

	// SearchByBarcode returns the best match for an exact barcode, ordered by
	// verification count descending, or ErrProductNotFound.
	SearchByBarcode(ctx context.Context, barcode string) (*SharedProduct, error)

	// SearchByName runs a prefix-range query ordered by verification count
	// descending, capped at 20 results.
	SearchByName(ctx context.Context, prefix string) ([]SharedProduct, error)

	// ExistsByBarcode is a cheap existence probe used before auto-contribution.
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)

	// Create submits a new product document.
	Create(ctx context.Context, product *SharedProduct) error

	// AddAction appends a verify/report action and bumps the matching counter.
	// A duplicate (product, user, action) yields ErrAlreadyActioned.
	AddAction(ctx context.Context, productID, actionType string) error
}

// BarcodeLookup is the third-party open-data nutrition API surface.
type BarcodeLookup interface {
	// FetchByBarcode resolves a barcode to a product or ErrProductNotFound.
	FetchByBarcode(ctx context.Context, barcode string) (*SharedProduct, error)
}

// ProductCache caches resolved barcode products for the lifetime of a process.
type ProductCache interface {
	Get(ctx context.Context, barcode string) (*SharedProduct, error)
	Set(ctx context.Context, barcode string, product *SharedProduct) error
	Delete(ctx context.Context, barcode string) error
	Exists(ctx context.Context, barcode string) (bool, error)
}

// DatasetSearcher is the bundled local dataset surface.
type DatasetSearcher interface {
	Search(query string) []FoodItem
}
