package service

import (
	"fmt"

	"github.com/deividastamosaitis/objektai/config"
	"github.com/playwright-community/playwright-go"
)

// PDFRenderer rasterizes an HTML document to a paginated PDF.
type PDFRenderer interface {
	Render(html string) ([]byte, error)
	Close() error
}

// ChromiumRenderer drives a long-lived headless Chromium via Playwright.
// One page is opened per render; the browser itself is reused across
// requests so signing does not pay browser startup cost every time.
type ChromiumRenderer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     *config.RendererConfig
}

func NewChromiumRenderer(cfg *config.RendererConfig) (*ChromiumRenderer, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	return &ChromiumRenderer{pw: pw, browser: browser, cfg: cfg}, nil
}

// Render loads the document into a fresh page and prints it to PDF with the
// configured page size and margins. The configured timeout bounds content
// loading so a hung renderer cannot pin a request forever.
func (r *ChromiumRenderer) Render(html string) ([]byte, error) {
	page, err := r.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	defer page.Close()

	timeoutMs := float64(r.cfg.TimeoutSeconds * 1000)
	if err := page.SetContent(html, playwright.PageSetContentOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(timeoutMs),
	}); err != nil {
		return nil, fmt.Errorf("could not set page content: %w", err)
	}

	pdfBytes, err := page.PDF(playwright.PagePdfOptions{
		Format:          playwright.String(r.cfg.PageFormat),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String(r.cfg.MarginTop),
			Bottom: playwright.String(r.cfg.MarginBottom),
			Left:   playwright.String(r.cfg.MarginLeft),
			Right:  playwright.String(r.cfg.MarginRight),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("could not generate PDF: %w", err)
	}

	return pdfBytes, nil
}

func (r *ChromiumRenderer) Close() error {
	if err := r.browser.Close(); err != nil {
		r.pw.Stop()
		return fmt.Errorf("could not close browser: %w", err)
	}
	return r.pw.Stop()
}
