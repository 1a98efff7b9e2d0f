package gamesession

import "go.uber.org/fx"

// Module exposes the session registry via Fx.
var Module = fx.Options(
	fx.Provide(NewRegistry),
)
