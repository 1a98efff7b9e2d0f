package subsapi

import "go.uber.org/fx"

// Module exposes the backend client via Fx.
var Module = fx.Options(
	fx.Provide(NewClient),
)
