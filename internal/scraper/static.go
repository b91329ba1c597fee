package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StaticFields holds everything extracted from the plain HTML of a listing
// page. Absent fields degrade to empty values, never to errors.
type StaticFields struct {
	ImageURLs      []string
	Description    string
	MainFacilities []string
}

// ExtractStaticFields walks a parsed listing page and collects hotel image
// URLs, the property description and the most-popular-facilities labels.
// Image sources are resolved against baseURL before de-duplication, and the
// result preserves document order.
func ExtractStaticFields(doc *goquery.Document, baseURL string) StaticFields {
	fields := StaticFields{
		ImageURLs:      make([]string, 0),
		MainFacilities: make([]string, 0),
	}

	base, baseErr := url.Parse(baseURL)

	seen := make(map[string]bool)
	doc.Find("img[src]").Each(func(i int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !strings.Contains(src, hotelImagePathMarker) {
			return
		}

		full := src
		if baseErr == nil {
			if ref, err := url.Parse(src); err == nil {
				full = base.ResolveReference(ref).String()
			}
		}

		if !seen[full] {
			seen[full] = true
			fields.ImageURLs = append(fields.ImageURLs, full)
		}
	})

	fields.Description = strings.TrimSpace(doc.Find(descriptionSelector).First().Text())

	doc.Find(facilitiesSelector).Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			fields.MainFacilities = append(fields.MainFacilities, text)
		}
	})

	return fields
}
