package main

import (
	"go.uber.org/fx"

	"github.com/sunsizer/sunsizer/internal/analysis"
	"github.com/sunsizer/sunsizer/internal/config"
	"github.com/sunsizer/sunsizer/internal/observability"
	"github.com/sunsizer/sunsizer/internal/refdata"
	"github.com/sunsizer/sunsizer/internal/server"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		refdata.Module,
		analysis.Module,
		server.Module,
	)
	app.Run()
}
