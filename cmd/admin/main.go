package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/vidtube/internal/admin"
	"github.com/dmitrijs2005/vidtube/internal/server"
	"github.com/dmitrijs2005/vidtube/internal/server/config"
)

func main() {

	cmd, err := admin.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()
	cfg := config.Load(cmd.ConfigArgs)

	app, err := server.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer app.Close()

	if err := admin.ResetPassword(ctx, os.Stdout, app.Users(), cmd.Username); err != nil {
		fmt.Fprintln(os.Stderr, err)
		app.Close()
		os.Exit(1)
	}
}
