package listing

import (
	"sort"
	"time"
)

// PriceCalendar maps ISO date strings to nightly prices.
// encoding/json marshals map keys in sorted order, so the persisted and
// returned JSON is always ascending by date.
type PriceCalendar map[string]int

// Dates returns the calendar's date keys sorted ascending.
func (c PriceCalendar) Dates() []string {
	dates := make([]string, 0, len(c))
	for d := range c {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Record is the assembled scrape result for one listing page.
type Record struct {
	URL            string        `json:"url"`
	URLHash        string        `json:"url_hash"`
	ImageURLs      []string      `json:"image_urls"`
	Description    string        `json:"description"`
	MainFacilities []string      `json:"main_facilities"`
	CalendarPrices PriceCalendar `json:"calendar_prices"`
	ScrapedAt      time.Time     `json:"scraped_at"`
}

// StoredRecord is a Record as returned by the store, with its row id.
type StoredRecord struct {
	ID int64 `json:"id"`
	Record
}
