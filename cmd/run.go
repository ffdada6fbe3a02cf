package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"wanksy/bot"
	"wanksy/config"
	"wanksy/database"
	"wanksy/events"
	"wanksy/repository"
)

// Run wires the application together and blocks until ctx is cancelled
func Run(ctx context.Context) error {
	cfg := config.Get()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	db, err := database.NewConnection(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.MigrateUp(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	bus := events.NewBus()
	subscribeEventLoggers(bus)

	uowFactory := repository.NewUnitOfWorkFactory(db, bus)

	b, err := bot.New(cfg, uowFactory, bus)
	if err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}
	defer func() {
		if err := b.Close(); err != nil {
			log.Errorf("Error closing bot: %v", err)
		}
	}()

	log.WithFields(log.Fields{
		"guild_id":    cfg.DiscordGuildID,
		"environment": cfg.Environment,
	}).Info("Wanksy is running")

	<-ctx.Done()
	log.Info("Shutting down")
	return nil
}

// subscribeEventLoggers attaches audit logging to the domain events
func subscribeEventLoggers(bus *events.Bus) {
	bus.Subscribe(events.EventTypePointsAdjusted, func(ctx context.Context, e events.Event) {
		adj := e.(events.PointsAdjustedEvent)
		log.WithFields(log.Fields{
			"discord_id": adj.DiscordID,
			"old":        adj.OldPoints,
			"new":        adj.NewPoints,
			"change":     adj.ChangeAmount,
			"kind":       adj.Kind,
		}).Info("Points adjusted")
	})

	bus.Subscribe(events.EventTypeWalletLinked, func(ctx context.Context, e events.Event) {
		linked := e.(events.WalletLinkedEvent)
		log.WithFields(log.Fields{
			"discord_id": linked.DiscordID,
			"address":    linked.Address,
		}).Info("Wallet linked")
	})

	bus.Subscribe(events.EventTypeRolesReconciled, func(ctx context.Context, e events.Event) {
		rec := e.(events.RolesReconciledEvent)
		log.WithFields(log.Fields{
			"team":     rec.Team,
			"dry_run":  rec.DryRun,
			"wl_added": rec.Log.Whitelist.Added,
			"ml_added": rec.Log.Moolalist.Added,
			"fm_added": rec.Log.FreeMint.Added,
		}).Info("Roles reconciled")
	})
}
