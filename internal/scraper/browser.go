package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/karagozeren/akademiknet/config"
)

const searchPath = "AkademikArama/"

// graphEnumScript runs in the rendered graph page. Node 0 is the
// profile owner and node 1 the legend, so enumeration starts at 2. A
// synthetic click makes the site refresh its #pageUrl link, which is
// then read back as the node's target.
const graphEnumScript = `(() => {
	const gs = document.querySelectorAll('svg g');
	const results = [];
	for (let i = 2; i < gs.length; i++) {
		const name = gs[i].querySelector('text')?.textContent.trim() || '';
		gs[i].dispatchEvent(new MouseEvent('click', { bubbles: true }));
		const href = document.getElementById('pageUrl')?.href || '';
		results.push({ name, href });
	}
	return results;
})()`

// nextPageScript clicks the pagination control following the active
// page marker. Returns false on the last page.
const nextPageScript = `(() => {
	const ul = document.querySelector('ul.pagination');
	if (!ul) return false;
	const lis = Array.from(ul.querySelectorAll('li'));
	const idx = lis.findIndex(li => li.classList.contains('active'));
	if (idx < 0 || idx >= lis.length - 1) return false;
	const a = lis[idx + 1].querySelector('a');
	if (!a) return false;
	a.click();
	return true;
})()`

// Browser owns one headless Chrome instance for a single worker run and
// implements SearchSource and GraphSource against the directory site.
type Browser struct {
	cfg config.DirectoryConfig

	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	brCtx       context.Context
	cancelBr    context.CancelFunc
}

// NewBrowser starts a headless browser configured for the directory.
// Image loading is disabled: the scrapers only read text and attribute
// values.
func NewBrowser(ctx context.Context, cfg config.DirectoryConfig) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.NoSandbox {
		opts = append(opts,
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
	}
	actx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	bctx, cancelBr := chromedp.NewContext(actx)
	return &Browser{
		cfg:         cfg,
		allocCtx:    actx,
		cancelAlloc: cancelAlloc,
		brCtx:       bctx,
		cancelBr:    cancelBr,
	}, nil
}

// Close tears down the Chrome instance.
func (b *Browser) Close() {
	if b.cancelBr != nil {
		b.cancelBr()
	}
	if b.cancelAlloc != nil {
		b.cancelAlloc()
	}
}

func (b *Browser) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(b.brCtx, b.cfg.NavTimeout)
	defer cancel()
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	return chromedp.Run(runCtx, actions...)
}

// Open performs the search-by-name action: land on the search page,
// dismiss the cookie banner if present, submit the name, and switch to
// the researchers tab.
func (b *Browser) Open(ctx context.Context, name string) error {
	if err := b.run(ctx,
		chromedp.Navigate(b.cfg.BaseURL+searchPath),
		chromedp.WaitVisible("#aramaTerim", chromedp.ByID),
	); err != nil {
		return fmt.Errorf("open search page: %w", err)
	}

	// Cookie consent only shows on fresh profiles; ignore its absence.
	_ = b.run(ctx, chromedp.Click(`//button[contains(text(),'Tümünü Kabul Et')]`, chromedp.BySearch))

	if err := b.run(ctx,
		chromedp.SendKeys("#aramaTerim", name, chromedp.ByID),
		chromedp.Click("#searchButton", chromedp.ByID),
	); err != nil {
		return fmt.Errorf("submit search: %w", err)
	}
	if err := b.run(ctx,
		chromedp.Click(`//a[contains(text(),'Akademisyenler')]`, chromedp.BySearch),
		chromedp.WaitReady(`tr[id^="authorInfo_"]`, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("open researchers tab: %w", err)
	}
	return nil
}

// Rows grabs the current results page and parses its rows.
func (b *Browser) Rows(ctx context.Context) ([]ResultRow, error) {
	var html string
	if err := b.run(ctx,
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("read results page: %w", err)
	}
	return parseResultRows(html)
}

// Next clicks through to the following results page, reporting false
// when no further pagination control exists.
func (b *Browser) Next(ctx context.Context) (bool, error) {
	var clicked bool
	if err := b.run(ctx, chromedp.Evaluate(nextPageScript, &clicked)); err != nil {
		return false, fmt.Errorf("advance page: %w", err)
	}
	if !clicked {
		return false, nil
	}
	if err := b.run(ctx,
		chromedp.Sleep(500*time.Millisecond),
		chromedp.WaitReady(`tr[id^="authorInfo_"]`, chromedp.ByQuery),
	); err != nil {
		return false, fmt.Errorf("wait next page: %w", err)
	}
	return true, nil
}

// Nodes opens the profile's collaborator graph and enumerates its
// nodes via the in-page script.
func (b *Browser) Nodes(ctx context.Context, profileURL string) ([]GraphNode, error) {
	if strings.TrimSpace(profileURL) == "" {
		return nil, fmt.Errorf("profile url required")
	}
	if err := b.run(ctx,
		chromedp.Navigate(profileURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Click(`//a[@href='viewAuthorGraphs.jsp']`, chromedp.BySearch),
	); err != nil {
		return nil, fmt.Errorf("open graph view: %w", err)
	}
	if err := b.run(ctx,
		chromedp.Poll(`document.querySelectorAll('svg g').length > 2`, nil,
			chromedp.WithPollingInterval(200*time.Millisecond)),
	); err != nil {
		return nil, fmt.Errorf("graph did not render: %w", err)
	}
	var nodes []GraphNode
	if err := b.run(ctx, chromedp.Evaluate(graphEnumScript, &nodes)); err != nil {
		return nil, fmt.Errorf("enumerate graph nodes: %w", err)
	}
	return nodes, nil
}

// Detail visits a collaborator's profile page and parses it.
func (b *Browser) Detail(ctx context.Context, url string) (ProfileDetail, error) {
	var html string
	if err := b.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return ProfileDetail{}, fmt.Errorf("fetch profile detail: %w", err)
	}
	return parseProfileDetail(html)
}

var (
	_ SearchSource = (*Browser)(nil)
	_ GraphSource  = (*Browser)(nil)
)
