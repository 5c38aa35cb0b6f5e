package browser

import (
	"context"
	"fmt"
	"time"

	"aliexpress/importer/internal/config"
	"aliexpress/importer/internal/rawval"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	log "github.com/sirupsen/logrus"
)

type rodDriver struct {
	browser     *rod.Browser
	pageTimeout time.Duration
}

// NewRodDriver launches a Chromium instance and connects to it. When no
// binary path is configured the default revision is downloaded first.
func NewRodDriver(cfg config.BrowserConfig, proxyURL string) (Driver, error) {
	bin := cfg.BinPath
	if bin == "" {
		log.Info("No browser binary configured, downloading default revision...")
		path, err := launcher.NewBrowser().Get()
		if err != nil {
			return nil, fmt.Errorf("failed to download browser: %w", err)
		}
		bin = path
	}

	l := launcher.New().
		Headless(cfg.Headless).
		Bin(bin).
		NoSandbox(true).
		Set("remote-allow-origins", "*")

	if proxyURL != "" {
		l = l.Proxy(proxyURL)
		log.Infof("🔗 Browser using proxy: %s", proxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	log.Infof("✅ Browser started (bin: %s, headless: %v)", bin, cfg.Headless)

	return &rodDriver{
		browser:     b,
		pageTimeout: time.Duration(cfg.PageTimeout) * time.Second,
	}, nil
}

func (d *rodDriver) NewPage(ctx context.Context) (Page, error) {
	p, err := stealth.Page(d.browser)
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1200,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if d.pageTimeout > 0 {
		p = p.Timeout(d.pageTimeout)
	}

	return &rodPage{page: p}, nil
}

func (d *rodDriver) Close() error {
	return d.browser.Close()
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Navigate(ctx context.Context, url string) error {
	page := p.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed to wait for %s to load: %w", url, err)
	}
	return nil
}

func (p *rodPage) Eval(ctx context.Context, js string) (rawval.Value, error) {
	obj, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return rawval.Absent, fmt.Errorf("failed to evaluate script: %w", err)
	}
	return rawval.From(obj.Value.Val()), nil
}

func (p *rodPage) AttributeAll(ctx context.Context, selector, attr string) ([]string, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements %q: %w", selector, err)
	}

	values := make([]string, 0, len(els))
	for _, el := range els {
		v, err := el.Attribute(attr)
		if err != nil || v == nil {
			continue
		}
		values = append(values, *v)
	}
	return values, nil
}

func (p *rodPage) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

func (p *rodPage) Close() error {
	return p.page.Close()
}
