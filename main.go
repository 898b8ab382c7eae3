// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Infoya/FourSeasonsPOC/config"
	"github.com/Infoya/FourSeasonsPOC/handlers"
	"github.com/Infoya/FourSeasonsPOC/routes"
	"github.com/Infoya/FourSeasonsPOC/services/assistant"
	"github.com/Infoya/FourSeasonsPOC/services/gateway"
	"github.com/Infoya/FourSeasonsPOC/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// Gateways.
	bookingGateway := gateway.NewBookingGateway(config.AppConfig.BookingAPIURL, config.GatewayTimeout())
	catalogGateway := gateway.NewCatalogGateway(
		config.AppConfig.ContentFeedURL,
		config.AppConfig.ReservationURL,
		config.AppConfig.FeedCurrency,
		config.GatewayTimeout(),
	)

	// Load booking metadata up front; the assistant works without it.
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	if _, err := catalogGateway.FetchGlobalSettings(startupCtx); err != nil {
		logger.Sugar().Warnf("main: could not load global settings: %v", err)
	}
	if _, err := catalogGateway.FetchBookingFlow(startupCtx); err != nil {
		logger.Sugar().Warnf("main: could not load booking flow metadata: %v", err)
	}
	cancelStartup()

	// Conversation store: Redis when available, in-memory otherwise.
	var store assistant.ConversationStore
	if err := utils.InitConversationCache(); err != nil {
		logger.Sugar().Warnf("main: redis unavailable, using in-memory conversation store: %v", err)
		store = assistant.NewMemoryConversationStore()
	} else {
		store = assistant.NewRedisConversationStore(utils.GetConversationCacheClient(), 24*time.Hour)
	}

	// Assistant service.
	runtime := assistant.NewOpenAIRuntime(config.AppConfig.OpenAIAPIKey, config.AppConfig.AssistantID)
	assistantService := &assistant.DefaultAssistantService{
		Runtime: runtime,
		Dispatcher: &assistant.Dispatcher{
			Booking:      bookingGateway,
			Catalog:      catalogGateway,
			DemoFallback: config.AppConfig.DemoFallback,
		},
		Store:        store,
		PollInterval: config.PollInterval(),
		RunDeadline:  config.RunDeadline(),
	}

	assistantHandler := handlers.NewAssistantHandler(assistantService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		AssistantQueryHandler: assistantHandler.HandleQuery,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
