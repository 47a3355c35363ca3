package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"crmbackend/internal/config"
	"crmbackend/internal/db"
	"crmbackend/internal/handlers"
	"crmbackend/internal/logger"
	"crmbackend/internal/middleware"
	"crmbackend/internal/password"
	"crmbackend/internal/repository"
	"crmbackend/internal/token"
	"crmbackend/internal/validation"
)

func main() {
	cfg := config.Load()
	log := logger.New()

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Error().Err(err).Msg("closing database failed")
		}
	}()

	validation.Register()

	hasher := password.NewBcrypt()
	tokens := token.NewJWT(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authRepo := repository.NewAuthRepository(gdb, hasher, tokens, log)
	customerRepo := repository.NewCustomerRepository(gdb, hasher, log)
	orderRepo := repository.NewOrderRepository(gdb, log)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.ErrorHandler(log))
	r.HandleMethodNotAllowed = true
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	}
	r.NoRoute(notFound)
	r.NoMethod(notFound)

	r.GET("/healthz", handlers.Health(gdb))

	v1 := r.Group("/v1")
	v1.POST("/login", handlers.Login(authRepo))

	secured := v1.Group("")
	secured.Use(middleware.Auth(gdb, tokens, log))
	{
		secured.GET("/customer", handlers.SearchCustomers(customerRepo))
		secured.POST("/customer", handlers.CreateCustomer(customerRepo))
		secured.GET("/customer/:id", handlers.GetCustomer(customerRepo))
		secured.PUT("/customer/:id", handlers.UpdateCustomer(customerRepo))
		secured.DELETE("/customer/:id", handlers.DeleteCustomer(customerRepo))

		secured.GET("/order", handlers.SearchOrders(orderRepo))
		secured.POST("/order", handlers.CreateOrder(orderRepo))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	log.Info().Msg("server stopped")
}
