package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosuri/uitable"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var sessionCommand = &cli.Command{
	Name:  "session",
	Usage: "Manage the upstream session",
	Subcommands: []*cli.Command{
		{
			Name:  "status",
			Usage: "Report whether an upstream session is loaded",
			Flags: []cli.Flag{
				cliFlagOutput,
			},
			Action: sessionStatus,
		},
		{
			Name:  "set",
			Usage: "Set a session directly from known tokens",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "auth-token",
					Usage:    "The upstream auth token (required)",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "csrf-token",
					Usage: "The upstream CSRF token",
				},
			},
			Action: sessionSet,
		},
	},
}

func sessionStatus(c *cli.Context) error {
	output := c.String(flagOutput)
	if err := validateOutputFormat(output); err != nil {
		return err
	}

	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting API client")
	}

	status, err := client.Sessions().Status(c.Context)
	if err != nil {
		return err
	}

	switch strings.ToLower(output) {
	case "table":
		table := uitable.New()
		table.AddRow("HAS SESSION?", "SESSION ID", "ACTIVE?")
		table.AddRow(status.HasSession, status.SessionID, status.Active)
		fmt.Println(table)

	case "json":
		prettyJSON, err := json.MarshalIndent(status, "", "  ")
		if err != nil {
			return errors.Wrap(
				err,
				"error formatting output from get session status operation",
			)
		}
		fmt.Println(string(prettyJSON))
	}

	return nil
}

func sessionSet(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting API client")
	}

	session, err := client.Sessions().Set(
		c.Context,
		c.String("auth-token"),
		c.String("csrf-token"),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s created.\n", session.ID)
	return nil
}

func validateOutputFormat(output string) error {
	switch strings.ToLower(output) {
	case "table", "json":
		return nil
	default:
		return errors.Errorf("unknown output format %q", output)
	}
}
