// Command ghusers searches GitHub users by username, location and minimum
// repository count, pages through the results and shows a single user's
// profile together with the total stars of the repositories they own.
//
// Run without a sub-command it starts the terminal UI. The search, user and
// seal sub-commands work without a terminal UI.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/deathrjj/ghusers/config"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("ghusers"),
		kong.Description("Search GitHub users and inspect their profiles."),
		kong.UsageOnError(),
		kong.Vars{"version": versionString()},
	)

	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}
