package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// CarrierStatus is returned by the shipping carrier's tracking API.
type CarrierStatus struct {
	Tracking string `json:"tracking"`
	Estado   string `json:"estado"`
	Detalle  string `json:"detalle"`
	// UltimaActualizacion ISO 8601
	UltimaActualizacion string `json:"ultima_actualizacion"`
}

// CarrierClient queries the external carrier for live tracking status.
// Carrier outages must never take the tracking endpoint down, so callers wrap
// every request in the carrier circuit breaker and degrade to local historial.
type CarrierClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCarrierClient(baseURL string) *CarrierClient {
	return &CarrierClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a carrier endpoint is configured.
func (c *CarrierClient) Enabled() bool { return c.baseURL != "" }

// Estado fetches the carrier-side status for an external tracking code.
func (c *CarrierClient) Estado(ctx context.Context, tracking string) (*CarrierStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tracking/"+tracking, nil)
	if err != nil {
		return nil, fmt.Errorf("carrier: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carrier: unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("carrier: returned %d", resp.StatusCode)
	}

	var result CarrierStatus
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("carrier: decode response: %w", err)
	}
	return &result, nil
}
