package receipt

import "go.uber.org/fx"

// Module provides the receipt repository to Fx.
var Module = fx.Provide(NewRepository)
