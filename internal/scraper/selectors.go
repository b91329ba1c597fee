package scraper

// CSS selectors for Booking.com listing pages
const (
	// Static page selectors
	hotelImagePathMarker = "/xdata/images/hotel/"
	descriptionSelector  = `p[data-testid="property-description"]`
	facilitiesSelector   = `div[data-testid="property-most-popular-facilities-wrapper"] li`

	// Date-picker selectors
	datePickerTriggerSelector = `[data-testid='searchbox-dates-container'] button`
	calendarSelector          = `[data-testid='searchbox-datepicker-calendar']`
	dateCellSelector          = `span[data-date]`
	priceCellSelector         = `div.a91bd87e91 span.e7362e5f34`
	// Partial aria-label match tolerates the site's locale switching.
	nextPageSelector = `button[aria-label*='seguinte'], button[aria-label*='next']`
)
