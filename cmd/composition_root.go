package cmd

import (
	"log/slog"

	"fulfillment/internal/adapters/out/carrier"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/accountrepo"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	accountStore  ports.CarrierAccountStore
	carrierClient ports.CarrierClient
	publisher     *kafkapub.Publisher
	jobManager    *jobs.JobManager
	logger        *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, redisClient *goredis.Client, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}

	root.accountStore = rediscache.NewAccountCache(
		redisClient,
		accountrepo.NewGormCarrierAccountStore(gormDB),
		rediscache.DefaultTTL,
	)
	root.carrierClient = carrierclient.NewHTTPClient(carrierclient.DefaultTimeout)
	root.publisher = kafkapub.NewPublisher([]string{configs.KafkaHost}, configs.KafkaOrderChangedTopic)

	root.jobManager = jobs.NewJobManager(
		root.CreateSubmitOrderToCarrierCommandHandler(),
		root.CreateCancelShipmentCommandHandler(),
		root.CreateSweepCarrierSubmissionsCommandHandler(),
		root.CreateSyncTrackingCommandHandler(),
		configs.CarrierQueueCapacity,
		logger,
	)

	return root
}

// JobManager returns the background job coordinator.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// ClosePublisher releases the kafka writer. Called on shutdown.
func (c *CompositionRoot) ClosePublisher() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) newUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() commands.ChangeOrderStatusCommandHandler {
	return commands.NewChangeOrderStatusCommandHandler(
		c.newUoWFactory(),
		c.publisher,
		c.jobManager.CarrierWorker(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateAssignOrderCommandHandler() commands.AssignOrderCommandHandler {
	return commands.NewAssignOrderCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateDistributeOrdersCommandHandler() commands.DistributeOrdersCommandHandler {
	return commands.NewDistributeOrdersCommandHandler(
		c.newUoWFactory(),
		c.CreateAssignOrderCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateCarrierHandoffCommandHandler() commands.CarrierHandoffCommandHandler {
	return commands.NewCarrierHandoffCommandHandler(
		c.newUoWFactory(),
		c.CreateSubmitOrderToCarrierCommandHandler(),
		c.publisher,
		c.logger,
	)
}

func (c *CompositionRoot) CreateSubmitOrderToCarrierCommandHandler() commands.SubmitOrderToCarrierCommandHandler {
	return commands.NewSubmitOrderToCarrierCommandHandler(
		c.newUoWFactory(),
		c.accountStore,
		c.carrierClient,
	)
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() commands.CancelShipmentCommandHandler {
	return commands.NewCancelShipmentCommandHandler(
		c.newUoWFactory(),
		c.accountStore,
		c.carrierClient,
	)
}

func (c *CompositionRoot) CreateRefreshTrackingCommandHandler() commands.RefreshTrackingCommandHandler {
	return commands.NewRefreshTrackingCommandHandler(
		c.newUoWFactory(),
		c.accountStore,
		c.carrierClient,
	)
}

func (c *CompositionRoot) CreateSyncTrackingCommandHandler() commands.SyncTrackingCommandHandler {
	return commands.NewSyncTrackingCommandHandler(
		c.newUoWFactory(),
		c.accountStore,
		c.carrierClient,
		c.logger,
	)
}

func (c *CompositionRoot) CreateSweepCarrierSubmissionsCommandHandler() commands.SweepCarrierSubmissionsCommandHandler {
	return commands.NewSweepCarrierSubmissionsCommandHandler(
		c.newUoWFactory(),
		c.CreateSubmitOrderToCarrierCommandHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.newUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOperatorPerformanceQueryHandler() queries.GetOperatorPerformanceQueryHandler {
	return queries.NewGetOperatorPerformanceQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnassignedOrdersQueryHandler() queries.GetUnassignedOrdersQueryHandler {
	return queries.NewGetUnassignedOrdersQueryHandler(c.gormDB)
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
