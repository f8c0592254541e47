package main

import (
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/kailas-cloud/platefinder/internal/version"
)

var flags = []cli.Flag{
	cli.StringFlag{
		Name:   "env",
		Value:  "local",
		Usage:  "config environment (config/<env>.yaml)",
		EnvVar: "ENV",
	},
	cli.StringFlag{
		Name:  "config",
		Usage: "explicit config file, overrides --env",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "show debug logs",
	},
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "platefinderctl"
	app.Usage = "inspect platefinder storage and the image classifier"
	app.Version = version.Version
	app.Flags = flags
	app.Commands = []cli.Command{
		pingCommand,
		searchCommand,
		classifyCommand,
		distanceCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal("Error: ", err)
	}
}
