package main

import (
	"fmt"
	"io/ioutil"

	dida "github.com/2977094657/DidaAPI"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Download xlsx workbooks",
	Subcommands: []*cli.Command{
		{
			Name:  "tasks",
			Usage: "Download a workbook of every task category",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagFile,
					Aliases: []string{"f"},
					Usage: "Write the workbook to the specified file " +
						"(defaults to the server-assigned name)",
				},
			},
			Action: exportTasks,
		},
		{
			Name:  "focus",
			Usage: "Download a workbook of the full focus timeline",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    flagFile,
					Aliases: []string{"f"},
					Usage: "Write the workbook to the specified file " +
						"(defaults to the server-assigned name)",
				},
			},
			Action: exportFocus,
		},
	},
}

func exportTasks(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting API client")
	}
	download, err := client.Exports().Tasks(c.Context)
	if err != nil {
		return err
	}
	return writeDownload(c, download)
}

func exportFocus(c *cli.Context) error {
	client, err := getClient(c)
	if err != nil {
		return errors.Wrap(err, "error getting API client")
	}
	download, err := client.Exports().Focus(c.Context)
	if err != nil {
		return err
	}
	return writeDownload(c, download)
}

func writeDownload(c *cli.Context, download dida.ExportDownload) error {
	filename := c.String(flagFile)
	if filename == "" {
		filename = download.Filename
	}
	if filename == "" {
		return errors.New(
			"the server did not assign a filename; please specify one",
		)
	}
	if err := ioutil.WriteFile(filename, download.Content, 0644); err != nil {
		return errors.Wrapf(err, "error writing workbook to %s", filename)
	}
	fmt.Printf("Wrote %d bytes to %s.\n", len(download.Content), filename)
	return nil
}
