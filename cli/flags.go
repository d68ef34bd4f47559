package main

import "github.com/urfave/cli/v2"

const (
	flagAuthor   = "author"
	flagDebug    = "debug"
	flagInsecure = "insecure"
	flagOutput   = "output"
	flagRemote   = "remote"
	flagServer   = "server"
	flagToken    = "token"
)

var (
	cliFlagOutput = &cli.StringFlag{
		Name:    flagOutput,
		Aliases: []string{"o"},
		Usage: "Print build metadata in the specified format; supported formats: " +
			"table, yaml, json",
		Value: "table",
	}
)
