// Package browser exposes the narrow automation capability the scraper
// needs. The pipeline only ever talks to Driver and Page, so extraction logic
// is testable without a live browser.
package browser

import (
	"context"

	"aliexpress/importer/internal/rawval"
)

// Page is a single browser tab.
type Page interface {
	// Navigate loads the URL and waits for the page load event.
	Navigate(ctx context.Context, url string) error
	// Eval runs a JS function expression in the page and returns its value.
	Eval(ctx context.Context, js string) (rawval.Value, error)
	// AttributeAll collects the given attribute from every element matching
	// the selector. Elements missing the attribute are skipped.
	AttributeAll(ctx context.Context, selector, attr string) ([]string, error)
	// HTML returns the rendered markup of the current document.
	HTML(ctx context.Context) (string, error)
	Close() error
}

// Driver owns a browser instance and opens pages on it.
type Driver interface {
	NewPage(ctx context.Context) (Page, error)
	Close() error
}
