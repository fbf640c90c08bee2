package http

import (
	"errors"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/operator"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// defaultPerformanceRange is applied when a performance report is requested
// without explicit bounds.
const defaultPerformanceRange = 30 * 24 * time.Hour

// Server handles HTTP requests for the fulfillment API.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	changeStatusHandler     commands.ChangeOrderStatusCommandHandler
	assignOrderHandler      commands.AssignOrderCommandHandler
	distributeOrdersHandler commands.DistributeOrdersCommandHandler
	carrierHandoffHandler   commands.CarrierHandoffCommandHandler
	submitToCarrierHandler  commands.SubmitOrderToCarrierCommandHandler
	refreshTrackingHandler  commands.RefreshTrackingCommandHandler
	syncTrackingHandler     commands.SyncTrackingCommandHandler
	editOrderHandler        commands.EditOrderCommandHandler
	deleteOrderHandler      commands.DeleteOrderCommandHandler

	// Query handlers
	orderHistoryHandler        queries.GetOrderHistoryQueryHandler
	operatorPerformanceHandler queries.GetOperatorPerformanceQueryHandler
	unassignedOrdersHandler    queries.GetUnassignedOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignOrderHandler commands.AssignOrderCommandHandler,
	distributeOrdersHandler commands.DistributeOrdersCommandHandler,
	carrierHandoffHandler commands.CarrierHandoffCommandHandler,
	submitToCarrierHandler commands.SubmitOrderToCarrierCommandHandler,
	refreshTrackingHandler commands.RefreshTrackingCommandHandler,
	syncTrackingHandler commands.SyncTrackingCommandHandler,
	editOrderHandler commands.EditOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	orderHistoryHandler queries.GetOrderHistoryQueryHandler,
	operatorPerformanceHandler queries.GetOperatorPerformanceQueryHandler,
	unassignedOrdersHandler queries.GetUnassignedOrdersQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:         createOrderHandler,
		changeStatusHandler:        changeStatusHandler,
		assignOrderHandler:         assignOrderHandler,
		distributeOrdersHandler:    distributeOrdersHandler,
		carrierHandoffHandler:      carrierHandoffHandler,
		submitToCarrierHandler:     submitToCarrierHandler,
		refreshTrackingHandler:     refreshTrackingHandler,
		syncTrackingHandler:        syncTrackingHandler,
		editOrderHandler:           editOrderHandler,
		deleteOrderHandler:         deleteOrderHandler,
		orderHistoryHandler:        orderHistoryHandler,
		operatorPerformanceHandler: operatorPerformanceHandler,
		unassignedOrdersHandler:    unassignedOrdersHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/unassigned", s.GetUnassignedOrders)
	api.POST("/orders/distribute", s.DistributeOrders)
	api.POST("/orders/handoff", s.CarrierHandoff)
	api.PUT("/orders/:id", s.EditOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/assign", s.AssignOrder)
	api.POST("/orders/:id/shipment", s.SubmitOrderToCarrier)
	api.POST("/orders/:id/tracking/refresh", s.RefreshTracking)
	api.GET("/orders/:id/history", s.GetOrderHistory)
	api.POST("/tracking/sync", s.SyncTracking)
	api.GET("/operators/:id/performance", s.GetOperatorPerformance)
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customer, err := order.NewCustomer(req.Customer.Name, req.Customer.Phone, req.Customer.Address, req.Customer.City)
	if err != nil {
		return badRequest(ctx, "Invalid customer data: "+err.Error())
	}

	orderID := kernel.NewUUID()

	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.Number,
		customer,
		req.Items,
		req.UnitPrice,
		req.Quantity,
		req.DeliveryPrice,
		req.OriginLocationID,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if handleErr := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{ID: orderID.String()})
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status - moves an order
// through the status state machine on behalf of an operator.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req ChangeStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return badRequest(ctx, "Unknown status: "+req.Status)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, actorID, target)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.changeStatusHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignOrder handles POST /api/v1/orders/:id/assign - assigns an order to an
// operator, or clears the assignment when operator_id is null.
func (s *Server) AssignOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req AssignOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	var operatorID *kernel.UUID
	if req.OperatorID != nil {
		id, parseErr := kernel.UUIDFromString(*req.OperatorID)
		if parseErr != nil {
			return badRequest(ctx, "Invalid operator id")
		}
		operatorID = &id
	}

	cmd, err := commands.NewAssignOrderCommand(orderID, operatorID, actorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.assignOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DistributeOrders handles POST /api/v1/orders/distribute - runs one
// distribution pass over the unassigned backlog.
func (s *Server) DistributeOrders(ctx echo.Context) error {
	var req DistributeOrdersRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	policy, err := services.ParsePolicy(req.Policy)
	if err != nil {
		return badRequest(ctx, "Unknown policy: "+req.Policy)
	}

	cmd, err := commands.NewDistributeOrdersCommand(policy, actorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.distributeOrdersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// CarrierHandoff handles POST /api/v1/orders/handoff - transitions the
// selected orders to the carrier import status and submits each shipment.
func (s *Server) CarrierHandoff(ctx echo.Context) error {
	var req CarrierHandoffRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return badRequest(ctx, "Invalid order id: "+raw)
		}
		orderIDs = append(orderIDs, id)
	}

	cmd, err := commands.NewCarrierHandoffCommand(orderIDs, actorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.carrierHandoffHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// SubmitOrderToCarrier handles POST /api/v1/orders/:id/shipment - submits a
// single order to the carrier immediately, bypassing the background queue.
func (s *Server) SubmitOrderToCarrier(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewSubmitOrderToCarrierCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	info, err := s.submitToCarrierHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ShipmentResponse{
		TrackingID:  info.TrackingID,
		TrackingURL: info.TrackingURL,
	})
}

// RefreshTracking handles POST /api/v1/orders/:id/tracking/refresh - pulls
// the latest carrier state for one order.
func (s *Server) RefreshTracking(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewRefreshTrackingCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.refreshTrackingHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SyncTracking handles POST /api/v1/tracking/sync - runs a bulk tracking
// refresh over all actively tracked orders.
func (s *Server) SyncTracking(ctx echo.Context) error {
	cmd, err := commands.NewSyncTrackingCommand(500)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.syncTrackingHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return domainError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}

// EditOrder handles PUT /api/v1/orders/:id - updates an order's customer and
// commercial details.
func (s *Server) EditOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req EditOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorID, err := kernel.UUIDFromString(req.ActorID)
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	customer, err := order.NewCustomer(req.Customer.Name, req.Customer.Phone, req.Customer.Address, req.Customer.City)
	if err != nil {
		return badRequest(ctx, "Invalid customer data: "+err.Error())
	}

	var paymentStatus *order.PaymentStatus
	if req.PaymentStatus != nil {
		ps, parseErr := order.ParsePaymentStatus(*req.PaymentStatus)
		if parseErr != nil {
			return badRequest(ctx, "Unknown payment status: "+*req.PaymentStatus)
		}
		paymentStatus = &ps
	}

	cmd, err := commands.NewEditOrderCommand(
		orderID,
		actorID,
		customer,
		req.Items,
		req.UnitPrice,
		req.Quantity,
		req.DeliveryPrice,
		paymentStatus,
	)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.editOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes an order. The
// acting operator is passed via the actor_id query parameter and must be an
// administrator.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	actorID, err := kernel.UUIDFromString(ctx.QueryParam("actor_id"))
	if err != nil {
		return badRequest(ctx, "Invalid actor id")
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID, actorID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if handleErr := s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return domainError(ctx, handleErr)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrderHistory handles GET /api/v1/orders/:id/history - returns the audit
// trail of an order, oldest first.
func (s *Server) GetOrderHistory(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderHistoryQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	entries, err := s.orderHistoryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]HistoryEntry, len(entries))
	for i, entry := range entries {
		var actorID *string
		if entry.ActorID != nil {
			id := entry.ActorID.String()
			actorID = &id
		}

		response[i] = HistoryEntry{
			ID:             entry.ID.String(),
			ActorID:        actorID,
			Action:         entry.Action,
			PreviousStatus: entry.PreviousStatus,
			NewStatus:      entry.NewStatus,
			Details:        entry.Details,
			CreatedAt:      entry.CreatedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOperatorPerformance handles GET /api/v1/operators/:id/performance -
// returns the operator's daily counters and rates over a date range. The
// from and to query parameters take YYYY-MM-DD dates; the range defaults to
// the last 30 days.
func (s *Server) GetOperatorPerformance(ctx echo.Context) error {
	operatorID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid operator id")
	}

	to := time.Now().UTC()
	from := to.Add(-defaultPerformanceRange)

	if raw := ctx.QueryParam("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(ctx, "Invalid from date")
		}
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return badRequest(ctx, "Invalid to date")
		}
	}

	query, err := queries.NewGetOperatorPerformanceQuery(operatorID, from, to)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	report, err := s.operatorPerformanceHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	days := make([]PerformanceDay, len(report.Days))
	for i, day := range report.Days {
		days[i] = PerformanceDay{
			Day:       day.Day,
			Assigned:  day.Assigned,
			Confirmed: day.Confirmed,
			Delivered: day.Delivered,
		}
	}

	return ctx.JSON(http.StatusOK, PerformanceReport{
		OperatorID:       report.OperatorID.String(),
		Days:             days,
		TotalAssigned:    report.TotalAssigned,
		TotalConfirmed:   report.TotalConfirmed,
		TotalDelivered:   report.TotalDelivered,
		ConfirmationRate: report.ConfirmationRate,
		DeliveryRate:     report.DeliveryRate,
	})
}

// GetUnassignedOrders handles GET /api/v1/orders/unassigned - lists the
// pending orders awaiting assignment, oldest first.
func (s *Server) GetUnassignedOrders(ctx echo.Context) error {
	query := queries.NewGetUnassignedOrdersQuery()

	orders, err := s.unassignedOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return domainError(ctx, err)
	}

	response := make([]UnassignedOrder, len(orders))
	for i, ord := range orders {
		response[i] = UnassignedOrder{
			ID:           ord.ID.String(),
			Number:       ord.Number,
			CustomerName: ord.CustomerName,
			CustomerCity: ord.CustomerCity,
			Total:        ord.Total,
			CreatedAt:    ord.CreatedAt.Format(time.RFC3339),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// domainError translates domain failures into API status codes.
func domainError(ctx echo.Context, err error) error {
	var notFound *errs.ObjectNotFoundError

	code := http.StatusInternalServerError
	switch {
	case errors.As(err, &notFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrIllegalTransition),
		errors.Is(err, order.ErrShipmentAlreadyCreated):
		code = http.StatusConflict
	case errors.Is(err, order.ErrEditForbidden),
		errors.Is(err, commands.ErrAdministratorRequired):
		code = http.StatusForbidden
	case errors.Is(err, operator.ErrInvalidOperator):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrNoEligibleOperators),
		errors.Is(err, commands.ErrNoCarrierConfigured):
		code = http.StatusConflict
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: err.Error(),
	})
}
