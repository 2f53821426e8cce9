package hko

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/sony/gobreaker"
)

// CurrentFetcher retrieves the current-conditions report. Failures
// degrade to an embedded error payload; the status response never
// fails because the weather is unavailable.
type CurrentFetcher struct {
	url     string
	httpCfg httpConfig
	circuit *gobreaker.CircuitBreaker
}

func NewCurrentFetcher(client *http.Client, url string) *CurrentFetcher {
	return &CurrentFetcher{
		url:     url,
		httpCfg: defaultHTTPConfig(client),
		circuit: newCircuit("hko-current"),
	}
}

// Fetch returns the parsed report, or {"error": ...} on timeout,
// connection failure, HTTP error status, or a malformed body.
func (f *CurrentFetcher) Fetch(ctx context.Context) map[string]interface{} {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, f.url, nil)
	}

	resp, err := doRequestWithResilience(ctx, f.httpCfg, f.circuit, buildRequest)
	if err != nil {
		log.Printf("hko: error fetching current weather: %v", err)
		return map[string]interface{}{"error": "Could not fetch HKO data: " + err.Error()}
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("hko: malformed current weather body: %v", err)
		return map[string]interface{}{"error": "Unexpected error fetching HKO data"}
	}
	return payload
}
