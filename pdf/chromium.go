package pdf

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/roomledger/rentals_backend/utils"
)

// ChromiumStrategy is the high-fidelity tier: it loads the HTML into a
// headless Chromium tab, waits briefly for fonts and styles to settle, and
// prints a paginated PDF with background graphics preserved.
//
// Set CHROMIUM_DISABLED=1 to skip this tier (CI, hosts without a browser).
type ChromiumStrategy struct {
	Timeout time.Duration
	Settle  time.Duration
}

func NewChromiumStrategy() *ChromiumStrategy {
	return &ChromiumStrategy{
		Timeout: 45 * time.Second,
		Settle:  500 * time.Millisecond,
	}
}

func (s *ChromiumStrategy) Name() string { return "chromium" }

func (s *ChromiumStrategy) Render(ctx context.Context, html string) ([]byte, error) {
	if os.Getenv("CHROMIUM_DISABLED") != "" {
		return nil, fmt.Errorf("%w: headless rendering disabled by CHROMIUM_DISABLED", utils.ErrorExternalFailure)
	}

	// A timeout must degrade exactly like a hard failure, so the whole run
	// shares one deadline.
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.Sleep(s.Settle),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: headless render: %v", utils.ErrorExternalFailure, err)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: headless render produced no output", utils.ErrorExternalFailure)
	}
	return buf, nil
}
