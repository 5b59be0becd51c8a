// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces the application uses to reach external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/nutrilens/v1/internal/domain/assessment"
)

// ErrProductNotFound is returned by ProductLookup when no product
// exists for a barcode.
var ErrProductNotFound = errors.New("product not found")

// EvidenceCache is the persistent additive-evidence store. Keys are
// normalized additive names. An expired entry reads as absent; physical
// eviction may be lazy. Reads never block reads; a write for a key is
// atomic with respect to concurrent reads of that key.
type EvidenceCache interface {
	Get(ctx context.Context, name string) (assessment.AdditiveEvidence, bool, error)
	Put(ctx context.Context, name string, ev assessment.AdditiveEvidence, ttl time.Duration) error
}

// SearchResult is one snippet returned by the evidence-retrieval
// collaborator.
type SearchResult struct {
	Title   string
	URL     string
	Content string
}

// EvidenceSearch is the external evidence-retrieval collaborator. It
// may return an empty slice and must not hang beyond a bound; callers
// treat any error as "no answer".
type EvidenceSearch interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// Product is raw product data returned by the lookup collaborator,
// already normalized into domain shapes.
type Product struct {
	Barcode     string
	Name        string
	Brand       string
	Nutrients   assessment.NutrientFacts
	Ingredients assessment.IngredientList
	Allergens   []string
}

// ProductLookup is the public product-metadata collaborator.
type ProductLookup interface {
	// LookupByBarcode returns product data for a barcode or
	// ErrProductNotFound.
	LookupByBarcode(ctx context.Context, barcode string) (*Product, error)
}
