// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/plume/internal/adapters/config"
	_ "go.trai.ch/plume/internal/adapters/devserver"
	_ "go.trai.ch/plume/internal/adapters/logger"
	_ "go.trai.ch/plume/internal/adapters/metrics"
	_ "go.trai.ch/plume/internal/adapters/telemetry"
	_ "go.trai.ch/plume/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/plume/internal/app"
	_ "go.trai.ch/plume/internal/engine/graph"
	_ "go.trai.ch/plume/internal/engine/stages"
)
