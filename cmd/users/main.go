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

	cfg, err := config.LoadUsers()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	dynamoClient, err := repository.NewDynamoDBClient(context.Background(), &cfg.DynamoDB, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize DynamoDB")
	}

	userRepo := repository.NewUserRepository(dynamoClient, cfg.DynamoDB.TableName, logger)
	refreshTokenRepo := repository.NewRefreshTokenRepository(dynamoClient, cfg.DynamoDB.TableName, logger)

	tokenService, err := service.NewTokenService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize token service")
	}

	sessionService := service.NewSessionService(userRepo, refreshTokenRepo, tokenService, &cfg.JWT, logger)
	usersService := service.NewUsersService(userRepo, logger)

	authHandlers := handlers.NewAuthHandlers(sessionService, logger)
	userHandlers := handlers.NewUserHandlers(usersService, logger)

	router := mux.NewRouter()
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	router.HandleFunc("/users/", userHandlers.CreateUser).Methods("POST")
	router.HandleFunc("/users/", userHandlers.ListUsers).Methods("GET")
	router.HandleFunc("/users/{id}", userHandlers.GetUser).Methods("GET")
	router.HandleFunc("/users/{id}", userHandlers.UpdateUser).Methods("PUT")
	router.HandleFunc("/users/{id}", userHandlers.DeleteUser).Methods("DELETE")

	router.HandleFunc("/auth/login", authHandlers.Login).Methods("POST")
	router.HandleFunc("/auth/refresh", authHandlers.Refresh).Methods("POST")
	router.HandleFunc("/auth/logout", authHandlers.Logout).Methods("POST")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting users service")
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
