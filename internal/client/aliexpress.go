package client

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"aliexpress/importer/internal/browser"
	"aliexpress/importer/internal/config"
	"aliexpress/importer/internal/domain"

	log "github.com/sirupsen/logrus"
)

// AliExpressClient drives a browser against the marketplace and produces
// canonical product records.
type AliExpressClient interface {
	// ListCategoryProductIDs returns the product ids reachable from a
	// category listing page, in page order.
	ListCategoryProductIDs(ctx context.Context, categoryID, categoryName string) ([]int64, error)
	// GetProduct loads a product page, extracts the embedded state and the
	// rendered description sub-page, and normalizes the result.
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
}

// productLinkSelector matches the anchor class the listing page renders
// around each product card.
const productLinkSelector = "a._3t7zg"

var productIDPattern = regexp.MustCompile(`item/(\d+)\.html`)

type aliExpressClient struct {
	baseURL        string
	driver         browser.Driver
	scrollDistance int
	scrollDelay    time.Duration
	maxScrollSteps int
}

func NewAliExpressClient(cfg config.AliExpressConfig, driver browser.Driver) AliExpressClient {
	return &aliExpressClient{
		baseURL:        cfg.BaseURL,
		driver:         driver,
		scrollDistance: cfg.ScrollDistance,
		scrollDelay:    cfg.ScrollDelay(),
		maxScrollSteps: cfg.MaxScrollSteps,
	}
}

func (c *aliExpressClient) ListCategoryProductIDs(ctx context.Context, categoryID, categoryName string) ([]int64, error) {
	page, err := c.driver.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	url := fmt.Sprintf("%s/category/%s/%s.html", c.baseURL, categoryID, categoryName)
	if err := page.Navigate(ctx, url); err != nil {
		return nil, err
	}

	if err := c.scrollToBottom(ctx, page); err != nil {
		return nil, err
	}

	hrefs, err := page.AttributeAll(ctx, productLinkSelector, "href")
	if err != nil {
		return nil, fmt.Errorf("failed to collect product links: %w", err)
	}

	ids := make([]int64, 0, len(hrefs))
	for _, href := range hrefs {
		m := productIDPattern.FindStringSubmatch(href)
		if len(m) < 2 {
			continue // not a product link, drop silently
		}
		id, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	log.Debugf("Found %d product links on category %s", len(ids), categoryID)
	return ids, nil
}

// scrollToBottom repeatedly scrolls by a fixed distance until the accumulated
// distance exceeds the last observed page height. The height is re-read after
// every step because the listing grows as lazy content loads; maxScrollSteps
// bounds the loop against pages that never stop growing.
func (c *aliExpressClient) scrollToBottom(ctx context.Context, page browser.Page) error {
	height, err := c.evalInt(ctx, page, "() => document.body.scrollHeight")
	if err != nil {
		return err
	}

	total := 0
	for step := 0; total <= height; step++ {
		if c.maxScrollSteps > 0 && step >= c.maxScrollSteps {
			log.Warnf("Stopping scroll after %d steps, page height still %d", step, height)
			break
		}

		if _, err := page.Eval(ctx, fmt.Sprintf("() => window.scrollBy(0, %d)", c.scrollDistance)); err != nil {
			return err
		}

		height, err = c.evalInt(ctx, page, "() => document.body.scrollHeight")
		if err != nil {
			return err
		}

		total += c.scrollDistance
		time.Sleep(c.scrollDelay)
	}
	return nil
}

func (c *aliExpressClient) evalInt(ctx context.Context, page browser.Page, js string) (int, error) {
	v, err := page.Eval(ctx, js)
	if err != nil {
		return 0, err
	}
	return int(v.Int()), nil
}

func (c *aliExpressClient) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	page, err := c.driver.NewPage(ctx)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	return c.getProductOnPage(ctx, page, productID)
}

// getProductOnPage runs the product extraction on an already-open page, so a
// listing import can reuse a single tab for every product.
func (c *aliExpressClient) getProductOnPage(ctx context.Context, page browser.Page, productID int64) (*domain.Product, error) {
	url := fmt.Sprintf("%s/item/%d.html", c.baseURL, productID)
	if err := page.Navigate(ctx, url); err != nil {
		return nil, err
	}

	state, err := page.Eval(ctx, "() => runParams")
	if err != nil {
		return nil, fmt.Errorf("failed to read page state for product %d: %w", productID, err)
	}

	data := state.Get("data")
	if !data.Exists() {
		return nil, fmt.Errorf("page state for product %d has no data payload", productID)
	}

	descriptionURL := data.Get("descriptionModule", "descriptionUrl").String()
	description := ""
	if descriptionURL != "" {
		if err := page.Navigate(ctx, descriptionURL); err != nil {
			return nil, fmt.Errorf("failed to load description for product %d: %w", productID, err)
		}
		html, err := page.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to capture description for product %d: %w", productID, err)
		}
		description = SanitizeDescription(html)
	}

	product := NormalizeProduct(productID, data, descriptionURL, description)
	product.URL = url
	return product, nil
}
