// Package carrierclient is the HTTP adapter for the external delivery
// carrier API. One client serves all configured accounts; the account
// passed to each call supplies the endpoint and credential.
package carrierclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
)

// DefaultTimeout bounds every carrier call. A call exceeding it is a
// failure, not retried within the same request.
const DefaultTimeout = 15 * time.Second

// HTTPClient implements ports.CarrierClient over the carrier's JSON API.
type HTTPClient struct {
	httpClient *http.Client
}

// NewHTTPClient creates a carrier client with the given per-call timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateShipment registers a shipment under the given account.
func (c *HTTPClient) CreateShipment(
	ctx context.Context,
	account *carrier.Account,
	request carrier.ShipmentRequest,
) (carrier.ShipmentInfo, error) {
	var response shipmentResponse
	err := c.do(ctx, account, http.MethodPost, "/api/v1/shipments", fromCreateRequest(request), &response)
	if err != nil {
		return carrier.ShipmentInfo{}, err
	}
	return response.toDomain(), nil
}

// CancelShipment voids a shipment at the carrier.
func (c *HTTPClient) CancelShipment(ctx context.Context, account *carrier.Account, trackingID string) error {
	path := fmt.Sprintf("/api/v1/shipments/%s/cancel", trackingID)
	return c.do(ctx, account, http.MethodPost, path, nil, nil)
}

// GetTracking fetches the current state of one shipment.
func (c *HTTPClient) GetTracking(
	ctx context.Context,
	account *carrier.Account,
	trackingID string,
) (carrier.TrackingUpdate, error) {
	var response trackingResponse
	path := fmt.Sprintf("/api/v1/shipments/%s/tracking", trackingID)
	if err := c.do(ctx, account, http.MethodGet, path, nil, &response); err != nil {
		return carrier.TrackingUpdate{}, err
	}
	return response.toDomain(), nil
}

// BulkGetTracking fetches the current state of up to 100 shipments in one
// call. Unknown tracking ids are absent from the result.
func (c *HTTPClient) BulkGetTracking(
	ctx context.Context,
	account *carrier.Account,
	trackingIDs []string,
) ([]carrier.TrackingUpdate, error) {
	var response bulkTrackingResponse
	err := c.do(ctx, account, http.MethodPost, "/api/v1/shipments/tracking", bulkTrackingRequest{TrackingIDs: trackingIDs}, &response)
	if err != nil {
		return nil, err
	}

	updates := make([]carrier.TrackingUpdate, 0, len(response.Shipments))
	for _, shipment := range response.Shipments {
		updates = append(updates, shipment.toDomain())
	}
	return updates, nil
}

// do issues one authenticated JSON request against the account's endpoint
// and decodes the response into out (when out is non-nil).
func (c *HTTPClient) do(
	ctx context.Context,
	account *carrier.Account,
	method, path string,
	body, out interface{},
) error {
	if err := account.Validate(); err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, account.BaseURL()+path, payload)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+account.APIKey())
	request.Header.Set("Accept", "application/json")
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("carrier request %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return decodeError(response)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("carrier response decode: %w", err)
	}
	return nil
}

func decodeError(response *http.Response) error {
	var apiErr errorResponse
	if err := json.NewDecoder(response.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("carrier returned %d: %s", response.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("carrier returned %d", response.StatusCode)
}
