package http

import (
	"go.uber.org/fx"

	webhooktransport "github.com/Additional-Code/relay/internal/transport/http/webhook"
)

// Module aggregates all HTTP transport handlers.
var Module = fx.Options(
	webhooktransport.Module,
)
