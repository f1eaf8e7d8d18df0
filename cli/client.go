package main

import (
	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

func getClient(c *cli.Context) (dida.Client, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving configuration")
	}
	return dida.NewClient(
		config.APIAddress,
		config.AllowInsecure || c.Bool(flagInsecure),
	), nil
}
