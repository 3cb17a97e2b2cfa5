package clients

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const (
	renderTimeout = 60 * time.Second
	settleDelay   = 2 * time.Second
)

// dismissOverlaysJS is a best-effort sweep for cookie walls and login prompts:
// send Escape, then drop full-viewport fixed elements that sit above the page.
const dismissOverlaysJS = `(() => {
	document.dispatchEvent(new KeyboardEvent('keydown', {key: 'Escape', keyCode: 27}));
	for (const el of document.querySelectorAll('body *')) {
		const style = window.getComputedStyle(el);
		if ((style.position === 'fixed' || style.position === 'sticky') &&
			parseInt(style.zIndex, 10) > 100 &&
			el.offsetHeight > window.innerHeight * 0.5) {
			el.remove();
		}
	}
	document.body.style.overflow = 'auto';
	return true;
})()`

// BrowserClient renders pages through a headless Chrome session. Each Render
// call opens and closes its own tab; ProfileDir, when set, points every
// session at the same persistent profile so logins and cookies carry over.
type BrowserClient struct {
	ProfileDir string
}

type RenderResult struct {
	Text  string
	Title string
}

func NewBrowserClient(profileDir string) *BrowserClient {
	return &BrowserClient{ProfileDir: profileDir}
}

func (bc *BrowserClient) Render(ctx context.Context, targetURL string) (*RenderResult, error) {
	ctx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if bc.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(bc.ProfileDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var text, title string
	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetCacheDisabled(true),
		chromedp.Navigate(targetURL),
		chromedp.Sleep(settleDelay),
		chromedp.Evaluate(dismissOverlaysJS, nil),
		chromedp.Title(&title),
		chromedp.Evaluate(`document.body.innerText`, &text),
	)
	if err != nil {
		return nil, fmt.Errorf("[BrowserClient] render failed for %s: %w", targetURL, err)
	}

	return &RenderResult{
		Text:  strings.TrimSpace(text),
		Title: strings.TrimSpace(title),
	}, nil
}
