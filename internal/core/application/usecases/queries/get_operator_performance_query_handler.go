package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetOperatorPerformanceQueryHandler builds a performance report from the
// raw daily counter rows. Uses direct SQL for optimal read performance in
// the CQRS pattern.
type GetOperatorPerformanceQueryHandler struct {
	db *gorm.DB
}

// NewGetOperatorPerformanceQueryHandler creates a handler for performance
// report queries. Requires a GORM database connection for query execution.
func NewGetOperatorPerformanceQueryHandler(db *gorm.DB) GetOperatorPerformanceQueryHandler {
	return GetOperatorPerformanceQueryHandler{db: db}
}

// Handle executes the query and returns the report, daily rows newest first.
// An operator with no counters in the range yields an empty report with
// zero rates.
func (h GetOperatorPerformanceQueryHandler) Handle(
	ctx context.Context,
	query GetOperatorPerformanceQuery,
) (GetOperatorPerformanceQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOperatorPerformanceQueryResponse{}, err
	}

	response := GetOperatorPerformanceQueryResponse{
		OperatorID: query.OperatorID(),
		Days:       make([]OperatorPerformanceDay, 0),
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			day,
			orders_assigned,
			orders_confirmed,
			orders_delivered
		FROM operator_performance
		WHERE operator_id = ?
		  AND day >= ?
		  AND day < ?
		ORDER BY day DESC
	`, query.OperatorID().Bytes(), query.From(), query.To()).Rows()
	if err != nil {
		return GetOperatorPerformanceQueryResponse{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var day OperatorPerformanceDay

		err = rows.Scan(
			&day.Day,
			&day.Assigned,
			&day.Confirmed,
			&day.Delivered,
		)
		if err != nil {
			return GetOperatorPerformanceQueryResponse{}, err
		}

		response.Days = append(response.Days, day)
		response.TotalAssigned += day.Assigned
		response.TotalConfirmed += day.Confirmed
		response.TotalDelivered += day.Delivered
	}

	if err = rows.Err(); err != nil {
		return GetOperatorPerformanceQueryResponse{}, err
	}

	if response.TotalAssigned > 0 {
		response.ConfirmationRate = float64(response.TotalConfirmed) / float64(response.TotalAssigned)
		response.DeliveryRate = float64(response.TotalDelivered) / float64(response.TotalAssigned)
	}

	return response, nil
}
