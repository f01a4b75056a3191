package app

import (
	"go.uber.org/fx"

	"github.com/Additional-Code/relay/internal/cache"
	"github.com/Additional-Code/relay/internal/commerce"
	"github.com/Additional-Code/relay/internal/config"
	"github.com/Additional-Code/relay/internal/database"
	"github.com/Additional-Code/relay/internal/logger"
	"github.com/Additional-Code/relay/internal/mailer"
	"github.com/Additional-Code/relay/internal/messaging"
	"github.com/Additional-Code/relay/internal/notifier"
	"github.com/Additional-Code/relay/internal/observability"
	repositoryreceipt "github.com/Additional-Code/relay/internal/repository/receipt"
	httpserver "github.com/Additional-Code/relay/internal/server/http"
	serviceorder "github.com/Additional-Code/relay/internal/service/order"
	servicestock "github.com/Additional-Code/relay/internal/service/stock"
	transporthttp "github.com/Additional-Code/relay/internal/transport/http"
	"github.com/Additional-Code/relay/internal/worker"
	workerorder "github.com/Additional-Code/relay/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	commerce.Module,
	mailer.Module,
	notifier.Module,
	repositoryreceipt.Module,
	servicestock.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	httpserver.Module,
	transporthttp.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP
