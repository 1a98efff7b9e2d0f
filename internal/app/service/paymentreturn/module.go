package paymentreturn

import "go.uber.org/fx"

// Module exposes the payment return poller via Fx.
var Module = fx.Options(
	fx.Provide(NewPoller),
)
