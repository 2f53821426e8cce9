package hko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func srsPayload() *SunPayload {
	return &SunPayload{
		Fields: []string{"YYYY-MM-DD", "RISE", "TRAN.", "SET"},
		Data: [][]string{
			{"2024-03-01", "06:42", "12:28", "18:15"},
			{"2024-03-02", "06:41", "12:28", "18:16"},
		},
	}
}

func TestFormatSunTimes(t *testing.T) {
	st, err := FormatSunTimes(srsPayload(), "2024-03-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := SunTimes{Date: "2024-03-02", Sunrise: "06:41", SolarTransit: "12:28", Sunset: "18:16"}
	if *st != want {
		t.Errorf("got %+v, want %+v", *st, want)
	}
}

func TestFormatSunTimesNoMatchingRow(t *testing.T) {
	if _, err := FormatSunTimes(srsPayload(), "2024-03-03"); !errors.Is(err, ErrNoMatchingRow) {
		t.Fatalf("expected ErrNoMatchingRow, got %v", err)
	}
}

func TestFormatSunTimesEmptyData(t *testing.T) {
	p := &SunPayload{Fields: []string{"YYYY-MM-DD", "RISE", "TRAN.", "SET"}, Data: [][]string{}}
	if _, err := FormatSunTimes(p, "2024-03-01"); !errors.Is(err, ErrNoMatchingRow) {
		t.Fatalf("expected ErrNoMatchingRow, got %v", err)
	}
}

func TestFormatSunTimesMissingTimeField(t *testing.T) {
	p := &SunPayload{
		Fields: []string{"YYYY-MM-DD", "RISE", "TRAN.", "SET"},
		Data:   [][]string{{"2024-03-01", "06:42", "", "18:15"}},
	}
	if _, err := FormatSunTimes(p, "2024-03-01"); !errors.Is(err, ErrMissingTimeFields) {
		t.Fatalf("expected ErrMissingTimeFields, got %v", err)
	}
}

func TestFormatSunTimesNilPayload(t *testing.T) {
	if _, err := FormatSunTimes(nil, "2024-03-01"); err == nil {
		t.Fatal("nil payload must be a format failure")
	}
}

func TestFetchDayBuildsQueryAndParses(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"fields":["YYYY-MM-DD","RISE","TRAN.","SET"],"data":[["2024-03-01","06:42","12:28","18:15"]]}`))
	}))
	defer srv.Close()

	c := NewSunClient(&http.Client{Timeout: time.Second}, srv.URL)
	p, err := c.FetchDay(context.Background(), "2024-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Data) != 1 || p.Data[0][0] != "2024-03-01" {
		t.Errorf("unexpected payload: %+v", p)
	}

	q := "dataType=SRS&day=01&lang=en&month=03&rformat=json&year=2024"
	if gotQuery != q {
		t.Errorf("query = %q, want %q", gotQuery, q)
	}
}

func TestFetchDayEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with empty body
	}))
	defer srv.Close()

	c := NewSunClient(&http.Client{Timeout: time.Second}, srv.URL)
	if _, err := c.FetchDay(context.Background(), "2024-03-01"); err == nil {
		t.Fatal("empty body must be a fetch failure")
	}
}

func TestFetchDayRejectsBadDate(t *testing.T) {
	c := NewSunClient(&http.Client{Timeout: time.Second}, "http://unused")
	if _, err := c.FetchDay(context.Background(), "01/03/2024"); err == nil {
		t.Fatal("bad date format must be rejected before any request")
	}
}
