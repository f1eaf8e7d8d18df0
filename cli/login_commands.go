package main

import (
	"encoding/json"
	"fmt"

	dida "github.com/2977094657/DidaAPI"
	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var loginCommand = &cli.Command{
	Name:  "login",
	Usage: "Log in to the upstream task service through the API server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     flagServer,
			Aliases:  []string{"s"},
			Usage:    "The address of the API server (required)",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  flagQR,
			Usage: "Log in by scanning a QR code",
		},
		&cli.BoolFlag{
			Name:    flagPassword,
			Aliases: []string{"p"},
			Usage:   "Log in with a username and password (the default)",
		},
		&cli.StringFlag{
			Name:  flagState,
			Usage: "Override the login state parameter",
		},
	},
	Action: login,
}

var logoutCommand = &cli.Command{
	Name:   "logout",
	Usage:  "Deactivate the current upstream session",
	Action: logout,
}

func login(c *cli.Context) error {
	if c.Bool(flagQR) && c.Bool(flagPassword) {
		return errors.Errorf(
			"only one of --%s or --%s may be specified",
			flagQR,
			flagPassword,
		)
	}

	apiAddress := c.String(flagServer)
	allowInsecure := c.Bool(flagInsecure)

	if err := saveConfig(
		&config{
			APIAddress:    apiAddress,
			AllowInsecure: allowInsecure,
		},
	); err != nil {
		return errors.Wrap(err, "error persisting configuration")
	}

	client := dida.NewClient(apiAddress, allowInsecure)
	if c.Bool(flagQR) {
		return qrLogin(c, client)
	}
	return passwordLogin(c, client)
}

func qrLogin(c *cli.Context, client dida.Client) error {
	descriptor, err := client.Sessions().IssueQRCode(
		c.Context,
		c.String(flagState),
	)
	if err != nil {
		return err
	}

	fmt.Println("Scan the following QR code with the WeChat mobile app:")
	fmt.Printf("\n  %s\n\n", descriptor.URL)
	fmt.Println("Waiting for the code to be scanned and confirmed...")

	result, err := client.Sessions().PollQRStatus(
		c.Context,
		descriptor.Key,
		descriptor.State,
	)
	if err != nil {
		return err
	}
	if !result.Success {
		return errors.Errorf("login failed: %s", result.Message)
	}

	fmt.Printf("\nYou are logged in. Session ID: %s\n", result.SessionID)
	return nil
}

func passwordLogin(c *cli.Context, client dida.Client) error {
	username := ""
	if err := survey.AskOne(
		&survey.Input{Message: "Username"},
		&username,
		survey.WithValidator(survey.Required),
	); err != nil {
		return err
	}
	password := ""
	if err := survey.AskOne(
		&survey.Password{Message: "Password"},
		&password,
		survey.WithValidator(survey.Required),
	); err != nil {
		return err
	}

	response, err := client.Sessions().PasswordLogin(
		c.Context,
		username,
		password,
	)
	if err != nil {
		return err
	}
	responseFields := struct {
		Token string `json:"token"`
	}{}
	// nolint: errcheck
	json.Unmarshal(response, &responseFields)
	if responseFields.Token == "" {
		return errors.New(
			"login failed: the upstream service did not issue a token",
		)
	}

	fmt.Println("\nYou are logged in.")
	return nil
}

func logout(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting API client")
	}
	if err := client.Sessions().Deactivate(c.Context); err != nil {
		return err
	}
	if err := deleteConfig(); err != nil {
		return err
	}
	fmt.Println("Logout was successful.")
	return nil
}
