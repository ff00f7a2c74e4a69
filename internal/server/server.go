package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/raduvm/ticketline/config"
	"github.com/raduvm/ticketline/internal/auth"
	"github.com/raduvm/ticketline/internal/handlers"
	"github.com/raduvm/ticketline/internal/inventory"
	"github.com/raduvm/ticketline/internal/middleware"
	"github.com/raduvm/ticketline/internal/models"
	"github.com/raduvm/ticketline/internal/store"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	codec := auth.NewCodec(cfg.JWTSecret, auth.DefaultIssuer, auth.DefaultTTL)
	blacklist := store.NewGormBlacklist(db)
	gate := auth.NewGate(codec, blacklist)

	ticketStore := store.NewGormStore(db)
	accountant := inventory.NewAccountant(ticketStore)
	coordinator := inventory.NewCoordinator(ticketStore, accountant)
	validator := inventory.NewValidator(ticketStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := auth.NewSweeper(blacklist, auth.DefaultSweepInterval)
	go sweeper.Run(ctx)

	r := gin.Default()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.AuthServicesMiddleware(codec, blacklist))
	r.Use(middleware.InventoryMiddleware(accountant, coordinator, validator))
	setupRoutes(r, gate)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{Addr: ":" + port, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func setupRoutes(r *gin.Engine, gate *auth.Gate) {
	anyRole := []models.Role{models.RoleAdmin, models.RoleOwnerEvent, models.RoleClient, models.RoleServiceClient}

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.POST("/logout", handlers.Logout)

		public.GET("/events", handlers.ListEvents)
		public.GET("/events/:id", handlers.GetEvent)
		public.GET("/packages", handlers.ListPackages)
		public.GET("/packages/:id", handlers.GetPackage)
	}

	events := r.Group("/v1/events")
	{
		events.POST("", middleware.RequireRoles(gate, models.RoleOwnerEvent), handlers.CreateEvent)
		events.PUT("/:id", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.UpdateEvent)
		events.DELETE("/:id", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.DeleteEvent)
	}

	packages := r.Group("/v1/packages")
	{
		packages.POST("", middleware.RequireRoles(gate, models.RoleOwnerEvent), handlers.CreatePackage)
		packages.PUT("/:id", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.UpdatePackage)
		packages.DELETE("/:id", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.DeletePackage)
		packages.POST("/:id/events/:eventId", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.LinkEvent)
		packages.DELETE("/:id/events/:eventId", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.UnlinkEvent)
	}

	tickets := r.Group("/v1/tickets")
	{
		tickets.GET("", middleware.RequireRoles(gate, models.RoleClient, models.RoleAdmin), handlers.ListMyTickets)
		tickets.POST("/events/:id", middleware.RequireRoles(gate, models.RoleClient, models.RoleAdmin), handlers.BuyEventTicket)
		tickets.POST("/packages/:id", middleware.RequireRoles(gate, models.RoleClient, models.RoleAdmin), handlers.BuyPackageTicket)
		tickets.POST("/validate", middleware.RequireRoles(gate, models.RoleClient, models.RoleAdmin), handlers.ValidateTicket)
		tickets.POST("/consume", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.ConsumeTicket)
		tickets.DELETE("/:code", middleware.RequireRoles(gate, models.RoleOwnerEvent, models.RoleAdmin), handlers.DeleteTicket)
		tickets.GET("/:code/qr", middleware.RequireRoles(gate, anyRole...), handlers.GenerateTicketQR)
	}

	r.GET("/v1/profile", middleware.RequireRoles(gate, anyRole...), handlers.GetProfile)
}
