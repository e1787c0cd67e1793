package main

import (
	"github.com/castgraph/backend/internal/server"
	"github.com/castgraph/backend/internal/util"
	"github.com/castgraph/backend/pkg/logger"
	"github.com/castgraph/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
