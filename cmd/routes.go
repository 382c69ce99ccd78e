package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/biosecret/todolist-api/app"
	"github.com/biosecret/todolist-api/config"
	"github.com/biosecret/todolist-api/database"
	"github.com/biosecret/todolist-api/events"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",

	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Default()
		cfg.Env = config.EnvTest
		cfg.JWTSecret = "routes"

		bus := events.NewBus()
		server := app.NewServer(cfg, app.Services{Store: database.NewMemoryStore(), Events: bus, Bus: bus})

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH")
		for _, route := range server.GetRoutes(true) {
			if route.Method == fiber.MethodHead {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", route.Method, route.Path)
		}
		w.Flush()
	},
}
