package main

import (
	"context"
	"log"
	"os"

	"github.com/chtime/chtime/internal/buildinfo"
	"github.com/chtime/chtime/internal/cli"
	"github.com/chtime/chtime/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := cli.NewApp(cfg)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
