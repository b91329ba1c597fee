package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"booking-scraper/helpers"
	"booking-scraper/internal/listing"
	"booking-scraper/logger"
)

// advanceDelay is the pause after clicking the next-page control, giving the
// calendar time to re-render before the next scan.
const advanceDelay = 350 * time.Millisecond

// StopReason names why the calendar scan stopped.
type StopReason string

const (
	// StopPageLimit means the configured page bound was exhausted
	StopPageLimit StopReason = "page_limit"
	// StopNoNextPage means the next-page control was absent or disabled
	StopNoNextPage StopReason = "no_next_page"
	// StopPickerNotFound means the date-picker trigger never became clickable
	StopPickerNotFound StopReason = "datepicker_not_found"
	// StopNavigationError means the browser session failed mid-scan
	StopNavigationError StopReason = "navigation_error"
)

// CalendarResult is the outcome of a calendar scan. Partial and total
// failures are expected outcomes, not errors: whatever prices were collected
// before the stop are returned alongside the reason.
type CalendarResult struct {
	Prices        listing.PriceCalendar `json:"prices"`
	PagesScanned  int                   `json:"pages_scanned"`
	StoppedReason StopReason            `json:"stopped_reason"`
}

// CalendarExtractor reads per-date prices from a listing's date picker.
type CalendarExtractor interface {
	ExtractPrices(ctx context.Context, url string) CalendarResult
}

// ChromeCalendarExtractor drives a headless Chrome session through the
// date-picker calendar. It is best-effort by design and never surfaces a hard
// failure to the caller.
type ChromeCalendarExtractor struct {
	maxPages   int
	wait       time.Duration
	chromePath string
	log        *logger.Logger
}

// NewChromeCalendarExtractor creates a calendar extractor bounded by maxPages
// calendar pages and an element wait of wait per step. chromePath overrides
// the browser binary when non-empty.
func NewChromeCalendarExtractor(maxPages int, wait time.Duration, chromePath string) *ChromeCalendarExtractor {
	return &ChromeCalendarExtractor{
		maxPages:   maxPages,
		wait:       wait,
		chromePath: chromePath,
		log:        logger.ForCalendar(),
	}
}

type calendarCell struct {
	Date  string `json:"date"`
	Price string `json:"price"`
}

// accumulatePrices folds one page of date cells into the price map. Cells
// without a date or a parsable price are skipped; a repeated date is
// overwritten, last write wins.
func accumulatePrices(prices listing.PriceCalendar, cells []calendarCell) {
	for _, cell := range cells {
		if cell.Date == "" {
			continue
		}
		if price, ok := parsePrice(cell.Price); ok {
			prices[cell.Date] = price
		}
	}
}

// ExtractPrices opens the listing in a headless browser, opens the date
// picker and scans up to the configured number of calendar pages. The browser
// session is released on every exit path.
func (e *ChromeCalendarExtractor) ExtractPrices(ctx context.Context, pageURL string) CalendarResult {
	result := CalendarResult{Prices: make(listing.PriceCalendar)}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(helpers.UserAgent),
	)
	if e.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.chromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	// Page load gets twice the element wait; waits below use the plain bound.
	navCtx, cancelNav := context.WithTimeout(tabCtx, 2*e.wait)
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		e.log.Warn().Err(err).Str("url", pageURL).Msg("Navigation failed, skipping calendar scan")
		result.StoppedReason = StopNavigationError
		return result
	}

	triggerCtx, cancelTrigger := context.WithTimeout(tabCtx, e.wait)
	defer cancelTrigger()
	err := chromedp.Run(triggerCtx,
		chromedp.WaitVisible(datePickerTriggerSelector, chromedp.ByQuery),
		chromedp.Click(datePickerTriggerSelector, chromedp.ByQuery),
	)
	if err != nil {
		e.log.Warn().Err(err).Str("url", pageURL).Msg("Date picker not found, skipping calendar scan")
		result.StoppedReason = StopPickerNotFound
		return result
	}

	for page := 0; page < e.maxPages; page++ {
		cells, err := e.scanPage(tabCtx)
		if err != nil {
			e.log.Warn().Err(err).Int("page", page).Msg("Calendar page scan failed")
			result.StoppedReason = StopNavigationError
			return result
		}

		accumulatePrices(result.Prices, cells)
		result.PagesScanned++

		if page == e.maxPages-1 {
			result.StoppedReason = StopPageLimit
			break
		}

		advanced, err := e.advance(tabCtx)
		if err != nil {
			e.log.Warn().Err(err).Int("page", page).Msg("Calendar advance failed")
			result.StoppedReason = StopNavigationError
			return result
		}
		if !advanced {
			result.StoppedReason = StopNoNextPage
			break
		}
	}

	e.log.Info().
		Int("dates", len(result.Prices)).
		Int("pages_scanned", result.PagesScanned).
		Str("stopped_reason", string(result.StoppedReason)).
		Msg("Calendar scan finished")

	return result
}

// scanPage waits for the calendar container and reads every date cell's
// data-date attribute together with the adjacent price label.
func (e *ChromeCalendarExtractor) scanPage(tabCtx context.Context) ([]calendarCell, error) {
	pageCtx, cancel := context.WithTimeout(tabCtx, e.wait)
	defer cancel()

	script := fmt.Sprintf(`(() => {
		const cal = document.querySelector("%s");
		if (!cal) return [];
		return Array.from(cal.querySelectorAll("%s")).map(cell => {
			const priceEl = cell.querySelector("%s");
			return {
				date: cell.getAttribute('data-date') || '',
				price: priceEl ? priceEl.textContent.trim() : ''
			};
		});
	})()`, calendarSelector, dateCellSelector, priceCellSelector)

	var cells []calendarCell
	err := chromedp.Run(pageCtx,
		chromedp.WaitVisible(calendarSelector, chromedp.ByQuery),
		chromedp.Evaluate(script, &cells),
	)
	if err != nil {
		return nil, err
	}
	return cells, nil
}

// advance clicks the next-page control and pauses for the re-render. It
// reports false when the control is absent or disabled.
func (e *ChromeCalendarExtractor) advance(tabCtx context.Context) (bool, error) {
	pageCtx, cancel := context.WithTimeout(tabCtx, e.wait)
	defer cancel()

	script := fmt.Sprintf(`(() => {
		const cal = document.querySelector("%s");
		const root = cal || document;
		const btn = root.querySelector("%s");
		if (!btn || btn.disabled) return false;
		btn.click();
		return true;
	})()`, calendarSelector, nextPageSelector)

	var advanced bool
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(script, &advanced)); err != nil {
		return false, err
	}
	if advanced {
		if err := chromedp.Run(pageCtx, chromedp.Sleep(advanceDelay)); err != nil {
			return false, err
		}
	}
	return advanced, nil
}
