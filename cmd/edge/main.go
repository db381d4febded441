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
	"github.com/ryadom/ryadom/internal/gateway"
	"github.com/ryadom/ryadom/internal/handlers"
	"github.com/ryadom/ryadom/internal/middleware"
	"github.com/ryadom/ryadom/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	cfg, err := config.LoadEdge()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	tokenService, err := service.NewTokenService(&cfg.JWT, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize token service")
	}

	gatewayClient := gateway.NewClient(&cfg.Downstream, logger)
	edgeHandlers := handlers.NewEdgeHandlers(gatewayClient, cfg, logger)
	identity := middleware.NewIdentityMiddleware(tokenService, logger)

	router := mux.NewRouter()
	router.Use(middleware.Recovery(logger))
	router.Use(identity.Attach)
	router.Use(middleware.Logging(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/login", edgeHandlers.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", edgeHandlers.Refresh).Methods("POST")
	api.HandleFunc("/auth/logout", edgeHandlers.Logout).Methods("POST")

	api.HandleFunc("/users/", edgeHandlers.CreateUser).Methods("POST")
	api.HandleFunc("/users/", edgeHandlers.ListUsers).Methods("GET")
	api.HandleFunc("/users/{id}", edgeHandlers.GetUser).Methods("GET")
	api.HandleFunc("/users/{id}", edgeHandlers.UpdateUser).Methods("PUT")
	api.HandleFunc("/users/{id}", edgeHandlers.DeleteUser).Methods("DELETE")

	api.HandleFunc("/events/", edgeHandlers.CreateEvent).Methods("POST")
	api.HandleFunc("/events/", edgeHandlers.ListEvents).Methods("GET")
	api.HandleFunc("/events/{id}", edgeHandlers.GetEvent).Methods("GET")
	api.HandleFunc("/events/{id}", edgeHandlers.UpdateEvent).Methods("PUT")
	api.HandleFunc("/events/{id}", edgeHandlers.DeleteEvent).Methods("DELETE")
	api.HandleFunc("/events/{id}/members/", edgeHandlers.AddMember).Methods("POST")
	api.HandleFunc("/events/{id}/members/", edgeHandlers.ListMembers).Methods("GET")

	api.HandleFunc("/geocode", edgeHandlers.Geocode).Methods("GET")
	api.HandleFunc("/static-map", edgeHandlers.StaticMap).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting edge router")
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
