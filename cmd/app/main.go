package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"fulfillment/cmd"
	httpadapter "fulfillment/internal/adapters/in/http"
	pgadapter "fulfillment/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB := mustConnectDB(configs)
	if err := pgadapter.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%s", configs.RedisHost, configs.RedisPort),
		Password: configs.RedisPassword,
	})

	app := cmd.NewCompositionRoot(configs, gormDB, redisClient, logger)

	if err := app.JobManager().StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	e := newWebServer(&app)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	app.JobManager().StopAll()
	if err := app.ClosePublisher(); err != nil {
		logger.Error("failed to close event publisher", "error", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}

func newWebServer(app *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	server := httpadapter.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateChangeOrderStatusCommandHandler(),
		app.CreateAssignOrderCommandHandler(),
		app.CreateDistributeOrdersCommandHandler(),
		app.CreateCarrierHandoffCommandHandler(),
		app.CreateSubmitOrderToCarrierCommandHandler(),
		app.CreateRefreshTrackingCommandHandler(),
		app.CreateSyncTrackingCommandHandler(),
		app.CreateEditOrderCommandHandler(),
		app.CreateDeleteOrderCommandHandler(),
		app.CreateGetOrderHistoryQueryHandler(),
		app.CreateGetOperatorPerformanceQueryHandler(),
		app.CreateGetUnassignedOrdersQueryHandler(),
	)
	server.RegisterRoutes(e)

	return e
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:               goDotEnvVariable("HTTP_PORT"),
		DBHost:                 goDotEnvVariable("DB_HOST"),
		DBPort:                 goDotEnvVariable("DB_PORT"),
		DBUser:                 goDotEnvVariable("DB_USER"),
		DBPassword:             goDotEnvVariable("DB_PASSWORD"),
		DBName:                 goDotEnvVariable("DB_NAME"),
		DBSslMode:              goDotEnvVariable("DB_SSLMODE"),
		RedisHost:              goDotEnvVariable("REDIS_HOST"),
		RedisPort:              goDotEnvVariable("REDIS_PORT"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		KafkaHost:              goDotEnvVariable("KAFKA_HOST"),
		KafkaOrderChangedTopic: goDotEnvVariable("KAFKA_ORDER_CHANGED_TOPIC"),
		CarrierQueueCapacity:   intEnvVariable("CARRIER_QUEUE_CAPACITY"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// intEnvVariable reads an optional integer variable; zero means "use the
// built-in default".
func intEnvVariable(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid value for %s: %v", key, err)
	}
	return value
}
