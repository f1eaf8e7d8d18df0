package main

import "github.com/urfave/cli/v2"

const (
	flagFile     = "file"
	flagInsecure = "insecure"
	flagOutput   = "output"
	flagPassword = "password"
	flagQR       = "qr"
	flagServer   = "server"
	flagState    = "state"
)

var cliFlagOutput = &cli.StringFlag{
	Name:    flagOutput,
	Aliases: []string{"o"},
	Usage:   "Return output in another format. Supported formats: table, json",
	Value:   "table",
}
