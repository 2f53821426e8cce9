package device

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// testController points a Controller at an httptest server and returns
// a counter of requests the device actually received.
func testController(t *testing.T, handler http.HandlerFunc) (*Controller, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewController("placeholder", 2*time.Second)
	c.baseURL = srv.URL
	return c, &hits
}

func TestSetLEDSuccess(t *testing.T) {
	var path string
	c, hits := testController(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
	})

	res, err := c.SetLED(context.Background(), "on")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK || res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected result: %+v", res)
	}
	if path != "/led/on" {
		t.Errorf("device saw path %q, want /led/on", path)
	}
	if hits.Load() != 1 {
		t.Errorf("expected exactly one device request, got %d", hits.Load())
	}
}

func TestSetLEDRejectsInvalidState(t *testing.T) {
	c, hits := testController(t, func(http.ResponseWriter, *http.Request) {})

	for _, state := range []string{"up", "ON", "", "toggle"} {
		if _, err := c.SetLED(context.Background(), state); !errors.Is(err, ErrInvalidLEDState) {
			t.Errorf("state %q: expected ErrInvalidLEDState, got %v", state, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("invalid states must not reach the device, got %d requests", hits.Load())
	}
}

func TestSetServoSendsAngle(t *testing.T) {
	var query string
	c, _ := testController(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
	})

	res, err := c.SetServo(context.Background(), 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.OK {
		t.Fatalf("unexpected result: %+v", res)
	}
	if query != "angle=90" {
		t.Errorf("device saw query %q, want angle=90", query)
	}
}

func TestSetServoRejectsOutOfRange(t *testing.T) {
	c, hits := testController(t, func(http.ResponseWriter, *http.Request) {})

	for _, angle := range []int{-1, 181, -90, 360} {
		if _, err := c.SetServo(context.Background(), angle); !errors.Is(err, ErrInvalidAngle) {
			t.Errorf("angle %d: expected ErrInvalidAngle, got %v", angle, err)
		}
	}
	if hits.Load() != 0 {
		t.Fatalf("out-of-range angles must not reach the device, got %d requests", hits.Load())
	}

	// Boundary values are valid.
	for _, angle := range []int{0, 180} {
		if _, err := c.SetServo(context.Background(), angle); err != nil {
			t.Errorf("angle %d: unexpected error %v", angle, err)
		}
	}
}

func TestSendClassifiesHTTPError(t *testing.T) {
	c, _ := testController(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	res, err := c.SetLED(context.Background(), "off")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatal("non-2xx must not be a success")
	}
	if res.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", res.StatusCode)
	}
	if !strings.Contains(res.Message, "unexpected status 503") {
		t.Errorf("message %q should name the status", res.Message)
	}
}

func TestSendClassifiesTimeout(t *testing.T) {
	c, _ := testController(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	})
	c.client.Timeout = 50 * time.Millisecond

	res, err := c.SetLED(context.Background(), "on")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK || res.StatusCode != 0 {
		t.Fatalf("timeout must give no status code: %+v", res)
	}
	if !strings.Contains(res.Message, "timed out") {
		t.Errorf("message %q should say timed out", res.Message)
	}
}

func TestSendClassifiesConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	c := NewController("placeholder", time.Second)
	c.baseURL = url

	res, err := c.SetLED(context.Background(), "on")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatal("unreachable device must not be a success")
	}
	if !strings.Contains(res.Message, "Is device online?") {
		t.Errorf("message %q should classify as connection failure", res.Message)
	}
}
