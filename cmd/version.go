package main

import (
	"os"

	unidonatevault "github.com/unidonate/unidonate-vault"
	"github.com/urfave/cli/v2"
)

func versionCmd(*cli.Context) error {
	unidonatevault.PrintVersion(os.Stdout)
	return nil
}
