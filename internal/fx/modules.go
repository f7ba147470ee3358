package fx

import (
	"lacrosse-tracker/internal/ai"
	"lacrosse-tracker/internal/config"
	"lacrosse-tracker/internal/database"
	"lacrosse-tracker/internal/game"
	"lacrosse-tracker/internal/hub"
	"lacrosse-tracker/internal/logger"
	"lacrosse-tracker/internal/repository"
	"lacrosse-tracker/internal/server"
	"lacrosse-tracker/internal/service"

	"go.uber.org/fx"
)

func ProvideBroadcaster(h *hub.Hub) game.Broadcaster {
	return h
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewTeamRepository),
	fx.Provide(repository.NewGameRepository),
	fx.Provide(repository.NewDrillRepository),
	// ai client
	fx.Provide(ai.NewClient),
	// live feed
	fx.Provide(hub.NewHub),
	fx.Provide(ProvideBroadcaster),
	// svc
	fx.Provide(service.NewTeamService),
	fx.Provide(service.NewGameService),
	fx.Provide(service.NewDrillService),
	// server
	fx.Provide(server.NewServer),
)
