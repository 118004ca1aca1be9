package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title Portfolio Media API
// @version 1.0
// @description API for the media (images, audio tracks and videos) attached to portfolio projects
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Owner session token, "Bearer <token>". Browsers send the session_token cookie instead.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio media backend",
		Long:          "Serves and manages the images, audio tracks and videos of portfolio projects.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSyncCommand(),
	)
	return root
}
