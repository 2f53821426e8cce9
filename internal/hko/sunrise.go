package hko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// Column names in the HKO sunrise/sunset (SRS) dataset. The first
// column of every data row is the date string.
const (
	fieldSunrise = "RISE"
	fieldTransit = "TRAN."
	fieldSunset  = "SET"
)

// DateLayout is the date string format the SRS dataset uses.
const DateLayout = "2006-01-02"

var (
	// ErrNoMatchingRow: the API answered but no data row matched the
	// requested date.
	ErrNoMatchingRow = errors.New("no data row matched the requested date")
	// ErrMissingTimeFields: the matching row lacks one of the three
	// required time fields.
	ErrMissingTimeFields = errors.New("data row missing required time fields")
)

// SunPayload is the raw SRS response shape: a header row of field
// names and data rows of strings.
type SunPayload struct {
	Fields []string   `json:"fields"`
	Data   [][]string `json:"data"`
}

// SunTimes is one day's sun-timing record, formatted and ready to
// write to the store.
type SunTimes struct {
	Date         string
	Sunrise      string
	SolarTransit string
	Sunset       string
}

// SunClient fetches the SRS dataset for single days.
type SunClient struct {
	baseURL string
	httpCfg httpConfig
	circuit *gobreaker.CircuitBreaker
}

func NewSunClient(client *http.Client, baseURL string) *SunClient {
	return &SunClient{
		baseURL: baseURL,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("hko-sun"),
	}
}

// FetchDay requests sun-timing data for the given date (DateLayout).
// An empty body, non-2xx status, or malformed JSON is a fetch failure.
func (c *SunClient) FetchDay(ctx context.Context, date string) (*SunPayload, error) {
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("dataType", "SRS")
		values.Set("lang", "en")
		values.Set("rformat", "json")
		values.Set("year", day.Format("2006"))
		values.Set("month", day.Format("01"))
		values.Set("day", day.Format("02"))
		return http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("fetch sun data: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sun data body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("sun api returned empty response")
	}

	var payload SunPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode sun data: %w", err)
	}
	return &payload, nil
}

// FormatSunTimes locates the data row for the requested date and
// extracts the three time fields. Pure function; the caller decides
// what a failure means for its retry state.
func FormatSunTimes(p *SunPayload, date string) (*SunTimes, error) {
	if p == nil || len(p.Fields) == 0 || p.Data == nil {
		return nil, errors.New("sun payload missing fields or data")
	}
	if len(p.Data) == 0 {
		return nil, fmt.Errorf("%w: %s (no data rows)", ErrNoMatchingRow, date)
	}

	var row []string
	for _, r := range p.Data {
		if len(r) > 0 && r[0] == date {
			row = r
			break
		}
	}
	if row == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingRow, date)
	}

	byField := make(map[string]string, len(p.Fields))
	for i, name := range p.Fields {
		if i < len(row) {
			byField[name] = row[i]
		}
	}

	st := &SunTimes{
		Date:         date,
		Sunrise:      byField[fieldSunrise],
		SolarTransit: byField[fieldTransit],
		Sunset:       byField[fieldSunset],
	}
	if st.Sunrise == "" || st.SolarTransit == "" || st.Sunset == "" {
		return nil, fmt.Errorf("%w: %v", ErrMissingTimeFields, row)
	}
	return st, nil
}
