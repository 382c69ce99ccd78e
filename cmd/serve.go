package cmd

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/biosecret/todolist-api/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server",

	Run: func(cmd *cobra.Command, args []string) {
		if err := app.SetupAndRunApp(cfgFile); err != nil {
			log.Fatal(err)
		}
	},
}
