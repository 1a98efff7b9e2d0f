package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/rekoonads/sweven-games-gateway/internal/app/api/server"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/accessgate"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/checkout"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/gamesession"
	"github.com/rekoonads/sweven-games-gateway/internal/app/service/paymentreturn"
	"github.com/rekoonads/sweven-games-gateway/internal/platform/subsapi"
	"github.com/rekoonads/sweven-games-gateway/pkg/config"
	"github.com/rekoonads/sweven-games-gateway/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	subsapi.Module,
	server.Module,
	accessgate.Module,
	checkout.Module,
	paymentreturn.Module,
	gamesession.Module,
)
