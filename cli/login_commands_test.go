package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestLoginRejectsConflictingModes(t *testing.T) {
	set := flag.NewFlagSet("login", 0)
	set.Bool(flagQR, true, "")
	set.Bool(flagPassword, true, "")
	c := cli.NewContext(cli.NewApp(), set, nil)

	err := login(c)
	require.Error(t, err)
	require.Contains(t, err.Error(), "only one of")
}
