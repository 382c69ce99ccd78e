package cmd

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/biosecret/todolist-api/config"
	"github.com/biosecret/todolist-api/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace all data with the demo users, lists and tasks",

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		store, err := database.Open(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		report, err := database.Seed(ctx, store)
		if err != nil {
			return err
		}

		log.Infof("Seeded %d users, %d todo lists and %d tasks (password %q)",
			report.Users, report.TodoLists, report.Tasks, database.SeedPassword)
		return nil
	},
}
