// Package catalog holds the store-side entities mutated by the import
// pipeline. The pipeline only talks to them through repository.CatalogStore,
// so the logic can run against an in-memory store in tests.
package catalog

import "errors"

// ErrNotFound is returned by store lookups addressed by id.
var ErrNotFound = errors.New("catalog: entity not found")

// User field keys recording where an imported product came from.
const (
	UserFieldProductURL = "AliExpressProductUrl"
	UserFieldProductID  = "AliExpressProductId"
)
