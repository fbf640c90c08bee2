package http

// Error is the JSON error body returned by all endpoints.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CustomerPayload carries customer contact fields on create and edit
// requests.
type CustomerPayload struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	Number           string            `json:"number"`
	Customer         CustomerPayload   `json:"customer"`
	Items            map[string]string `json:"items"`
	UnitPrice        float64           `json:"unit_price"`
	Quantity         int               `json:"quantity"`
	DeliveryPrice    float64           `json:"delivery_price"`
	OriginLocationID *string           `json:"origin_location_id,omitempty"`
}

// CreateOrderResponse returns the identifier of the created order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// ChangeStatusRequest is the body of PATCH /api/v1/orders/{id}/status.
type ChangeStatusRequest struct {
	Status  string `json:"status"`
	ActorID string `json:"actor_id"`
}

// AssignOrderRequest is the body of POST /api/v1/orders/{id}/assign.
// A null operator_id clears the assignment.
type AssignOrderRequest struct {
	OperatorID *string `json:"operator_id"`
	ActorID    string  `json:"actor_id"`
}

// DistributeOrdersRequest is the body of POST /api/v1/orders/distribute.
type DistributeOrdersRequest struct {
	Policy  string `json:"policy"`
	ActorID string `json:"actor_id"`
}

// CarrierHandoffRequest is the body of POST /api/v1/orders/handoff.
type CarrierHandoffRequest struct {
	OrderIDs []string `json:"order_ids"`
	ActorID  string   `json:"actor_id"`
}

// EditOrderRequest is the body of PUT /api/v1/orders/{id}. A null
// payment_status leaves the payment axis untouched.
type EditOrderRequest struct {
	Customer      CustomerPayload   `json:"customer"`
	Items         map[string]string `json:"items"`
	UnitPrice     float64           `json:"unit_price"`
	Quantity      int               `json:"quantity"`
	DeliveryPrice float64           `json:"delivery_price"`
	PaymentStatus *string           `json:"payment_status"`
	ActorID       string            `json:"actor_id"`
}

// ShipmentResponse mirrors the carrier state of an order after submission.
type ShipmentResponse struct {
	TrackingID  string `json:"tracking_id"`
	TrackingURL string `json:"tracking_url,omitempty"`
}

// HistoryEntry is one audit record of an order.
type HistoryEntry struct {
	ID             string  `json:"id"`
	ActorID        *string `json:"actor_id,omitempty"`
	Action         string  `json:"action"`
	PreviousStatus *string `json:"previous_status,omitempty"`
	NewStatus      *string `json:"new_status,omitempty"`
	Details        string  `json:"details,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// PerformanceDay is one daily counter row of a performance report.
type PerformanceDay struct {
	Day       string `json:"day"`
	Assigned  int    `json:"assigned"`
	Confirmed int    `json:"confirmed"`
	Delivered int    `json:"delivered"`
}

// PerformanceReport aggregates an operator's counters over a date range.
type PerformanceReport struct {
	OperatorID       string           `json:"operator_id"`
	Days             []PerformanceDay `json:"days"`
	TotalAssigned    int              `json:"total_assigned"`
	TotalConfirmed   int              `json:"total_confirmed"`
	TotalDelivered   int              `json:"total_delivered"`
	ConfirmationRate float64          `json:"confirmation_rate"`
	DeliveryRate     float64          `json:"delivery_rate"`
}

// UnassignedOrder is one order in the unassigned backlog listing.
type UnassignedOrder struct {
	ID           string  `json:"id"`
	Number       string  `json:"number"`
	CustomerName string  `json:"customer_name"`
	CustomerCity string  `json:"customer_city"`
	Total        float64 `json:"total"`
	CreatedAt    string  `json:"created_at"`
}
