package listing

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceCalendarDatesSorted(t *testing.T) {
	cal := PriceCalendar{
		"2024-03-05": 90,
		"2024-03-01": 120,
		"2024-03-03": 110,
	}

	assert.Equal(t, []string{"2024-03-01", "2024-03-03", "2024-03-05"}, cal.Dates())
	assert.Empty(t, PriceCalendar{}.Dates())
}

func TestPriceCalendarJSONOrder(t *testing.T) {
	cal := PriceCalendar{
		"2024-12-01": 200,
		"2024-01-15": 95,
		"2024-06-30": 140,
	}

	data, err := json.Marshal(cal)
	require.NoError(t, err)

	body := string(data)
	first := strings.Index(body, "2024-01-15")
	second := strings.Index(body, "2024-06-30")
	third := strings.Index(body, "2024-12-01")
	assert.True(t, first < second && second < third, "calendar JSON must be ascending by date: %s", body)
}
