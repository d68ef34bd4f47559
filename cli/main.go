package main

import (
	"fmt"
	"os"

	"github.com/krancour/drone-logs/internal/logging"
	"github.com/krancour/drone-logs/internal/signals"
	"github.com/krancour/drone-logs/internal/version"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "drone-logs"
	app.Usage = "Show the log of the latest Drone build of the current repository"
	app.ArgsUsage = "[REMOTE] [AUTHOR]"
	app.Version = fmt.Sprintf(
		"%s -- commit %s",
		version.Version(),
		version.Commit(),
	)
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    flagAuthor,
			Aliases: []string{"a"},
			Usage: "Show the latest build by the specified author instead of the " +
				"latest build overall",
		},
		&cli.BoolFlag{
			Name:  flagDebug,
			Usage: "Log diagnostic information to stderr",
		},
		&cli.BoolFlag{
			Name:    flagInsecure,
			Aliases: []string{"k"},
			Usage: "Allow insecure Drone server connections when using TLS; " +
				"overrides DRONE_INSECURE",
		},
		cliFlagOutput,
		&cli.StringFlag{
			Name:    flagRemote,
			Aliases: []string{"r"},
			Usage: "Resolve the repository from the specified git remote; if not " +
				"set, git chooses",
		},
		&cli.StringFlag{
			Name:  flagServer,
			Usage: "The address of the Drone server; overrides DRONE_SERVER",
		},
		&cli.StringFlag{
			Name:  flagToken,
			Usage: "The Drone API token; overrides DRONE_TOKEN",
		},
	}
	app.Before = func(c *cli.Context) error {
		logging.Setup(os.Stderr, c.Bool(flagDebug))
		return nil
	}
	app.Action = showLogs
	if err := app.RunContext(signals.Context(), os.Args); err != nil {
		fmt.Printf("\n%s\n\n", err)
		os.Exit(1)
	}
}
