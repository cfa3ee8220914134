package main

import (
	"context"
	"os"

	"github.com/radarnarcisista/cartaselo/internal/buildinfo"
	"github.com/radarnarcisista/cartaselo/internal/client/cli"
	"github.com/radarnarcisista/cartaselo/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app := cli.NewApp(cfg)

	app.Run(ctx)

}
