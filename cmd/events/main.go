package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/ryadom/ryadom/internal/config"
	"github.com/ryadom/ryadom/internal/handlers"
	"github.com/ryadom/ryadom/internal/middleware"
	"github.com/ryadom/ryadom/internal/repository"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.LoadEvents()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dynamoClient, err := repository.NewDynamoDBClient(context.Background(), &cfg.DynamoDB, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	eventRepo := repository.NewEventRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
	memberRepo := repository.NewMemberRepository(dynamoClient, cfg.DynamoDB.TableName, logger)

	eventsService := service.NewEventsService(eventRepo, memberRepo, logger)
	eventHandlers := handlers.NewEventHandlers(eventsService, logger)

	router := mux.NewRouter()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	router.HandleFunc("/events/", eventHandlers.CreateEvent).Methods("POST")
	router.HandleFunc("/events/", eventHandlers.ListEvents).Methods("GET")
	router.HandleFunc("/events/{id}", eventHandlers.GetEvent).Methods("GET")
	router.HandleFunc("/events/{id}", eventHandlers.UpdateEvent).Methods("PUT")
	router.HandleFunc("/events/{id}", eventHandlers.DeleteEvent).Methods("DELETE")
	router.HandleFunc("/events/{id}/members/", eventHandlers.AddMember).Methods("POST")
	router.HandleFunc("/events/{id}/members/", eventHandlers.ListMembers).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting events service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Fatal("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
