package logger

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rekoonads/sweven-games-gateway/pkg/config"
)

// New builds the process logger: human-readable in dev, JSON production
// encoding otherwise. Every line carries the service name so gateway logs
// are separable from the backend's in a shared sink.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	var zcfg zap.Config
	if cfg.Env == config.EnvDev {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"

	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("service", "subscription-gateway"), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
