// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/shadercache/internal/adapters/cas"
	_ "go.trai.ch/shadercache/internal/adapters/config"
	_ "go.trai.ch/shadercache/internal/adapters/fs"
	_ "go.trai.ch/shadercache/internal/adapters/logger"
	_ "go.trai.ch/shadercache/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/shadercache/internal/app"
)
