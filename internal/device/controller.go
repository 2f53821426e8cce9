// Package device translates control intents into single HTTP GETs to
// the embedded device. No retries here: a failed control action is
// surfaced to the caller immediately.
package device

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/wilson-cheng1110/Comp4436-GP/internal/common"
)

var (
	// ErrInvalidLEDState is returned before any network call for a
	// state other than "on" or "off".
	ErrInvalidLEDState = errors.New("led state must be \"on\" or \"off\"")
	// ErrInvalidAngle is returned before any network call for an angle
	// outside [0,180].
	ErrInvalidAngle = errors.New("servo angle must be within [0,180]")
)

// Result is the tri-state outcome of one device request. StatusCode is
// 0 when no HTTP response was received; Message is empty on success.
type Result struct {
	OK         bool
	StatusCode int
	Message    string
}

// Controller issues control commands to a fixed device endpoint.
type Controller struct {
	client  *http.Client
	baseURL string
}

func NewController(deviceIP string, timeout time.Duration) *Controller {
	return &Controller{
		client:  &http.Client{Timeout: timeout},
		baseURL: "http://" + deviceIP,
	}
}

// SetLED sends the LED command. state must be "on" or "off".
func (c *Controller) SetLED(ctx context.Context, state string) (Result, error) {
	if state != "on" && state != "off" {
		return Result{}, ErrInvalidLEDState
	}
	return c.send(ctx, c.baseURL+"/led/"+state), nil
}

// SetServo sends the servo command. angle must be within [0,180].
func (c *Controller) SetServo(ctx context.Context, angle int) (Result, error) {
	if angle < 0 || angle > 180 {
		return Result{}, ErrInvalidAngle
	}
	return c.send(ctx, fmt.Sprintf("%s/servo?angle=%d", c.baseURL, angle)), nil
}

// send issues one GET with the bounded client timeout and classifies
// the outcome: timeout, device unreachable, HTTP error status, or
// unexpected failure. Each class gets its own message; the result
// shape is the same for all.
func (c *Controller) send(ctx context.Context, url string) Result {
	log.Printf("device: sending request to %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{Message: fmt.Sprintf("An unexpected error occurred sending request to %s: %v", url, err)}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return classifySendError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("Failed to send request to %s: unexpected status %d", url, resp.StatusCode)
		log.Printf("device: %s", msg)
		return Result{StatusCode: resp.StatusCode, Message: msg}
	}

	log.Printf("device: request successful (status: %d)", resp.StatusCode)
	return Result{OK: true, StatusCode: resp.StatusCode}
}

func classifySendError(url string, err error) Result {
	var netErr net.Error

	var msg string
	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		msg = fmt.Sprintf("Request timed out for %s", url)
	case common.HasAny(err.Error(),
		"connection refused", "no such host", "no route to host", "network is unreachable"):
		msg = fmt.Sprintf("Connection refused or failed for %s. Is device online? %v", url, err)
	default:
		msg = fmt.Sprintf("Failed to send request to %s: %v", url, err)
	}

	log.Printf("device: %s", msg)
	return Result{Message: msg}
}
