package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/stefanr/teamup-api/internal/config"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/handlers"
	"github.com/stefanr/teamup-api/internal/logger"
	authmw "github.com/stefanr/teamup-api/internal/middleware"
	"github.com/stefanr/teamup-api/internal/notify"
	"github.com/stefanr/teamup-api/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	hub := notify.NewHub()
	go hub.Run()

	dispatcher := notify.NewService(db, hub, notify.NewEmailSender(cfg.SMTP), log)

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry)
	userService := services.NewUserService(db)
	membershipService := services.NewMembershipService(db, dispatcher)
	teamService := services.NewTeamService(db, membershipService)
	requestService := services.NewJoinRequestService(db, membershipService, dispatcher)
	invitationService := services.NewInvitationService(db, membershipService, dispatcher)

	teamHandler := handlers.NewTeamHandler(teamService, membershipService)
	requestHandler := handlers.NewRequestHandler(requestService, teamService)
	invitationHandler := handlers.NewInvitationHandler(invitationService, teamService, userService)
	eventsHandler := handlers.NewEventsHandler(hub)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v1")

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService))

	protected.Get("/teams", teamHandler.List)
	protected.Post("/teams", teamHandler.Create)
	protected.Get("/teams/:id", teamHandler.Get)
	protected.Patch("/teams/:id", teamHandler.Update)
	protected.Delete("/teams/:id", teamHandler.Delete)
	protected.Post("/teams/:id/deactivate", teamHandler.Deactivate)
	protected.Get("/teams/:id/members", teamHandler.GetMembers)
	protected.Delete("/teams/:id/members/:userId", teamHandler.RemoveMember)

	protected.Post("/teams/:id/requests", requestHandler.Submit)
	protected.Get("/teams/:id/requests", requestHandler.ListForTeam)
	protected.Get("/requests", requestHandler.ListMine)
	protected.Post("/requests/:requestId/respond", requestHandler.Respond)

	protected.Post("/teams/:id/invitations", invitationHandler.Create)
	protected.Get("/teams/:id/invitations", invitationHandler.ListForTeam)
	protected.Get("/invitations", invitationHandler.ListMine)
	protected.Post("/invitations/:invitationId/respond", invitationHandler.Respond)
	protected.Delete("/invitations/:invitationId", invitationHandler.Cancel)

	protected.Get("/events", eventsHandler.Connect)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Infow("server starting", "addr", addr)
		if err := app.Run(addr); err != nil {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
}
