package accessgate

import "go.uber.org/fx"

// Module exposes the access gate via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
