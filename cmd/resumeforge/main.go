package main

import (
	"context"
	"log"
	"os"

	"github.com/resumeforge/resumeforge/internal/buildinfo"
	"github.com/resumeforge/resumeforge/internal/client/cli"
	"github.com/resumeforge/resumeforge/internal/client/config"
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
