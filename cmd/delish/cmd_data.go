package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/schedule"
)

// delish migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create cart.json or convert a legacy array cart",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := docstore.Open(config.DataDir())
		if err != nil {
			return err
		}
		outcome, err := services.Migrate(cmd.Context(), store)
		if err != nil {
			return err
		}
		fmt.Printf("cart.json %s (%s)\n", outcome, store.Dir())
		return nil
	},
}

// delish janitor:run
var janitorRunCmd = &cobra.Command{
	Use:   "janitor:run",
	Short: "Remove abandoned temporary files from the data directory once",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := docstore.Open(config.DataDir())
		if err != nil {
			return err
		}
		j := &schedule.Janitor{Store: store, MaxAge: config.JanitorMaxAge()}
		j.Run()
		return nil
	},
}

var eventsTailCount int

// delish events:tail
var eventsTailCmd = &cobra.Command{
	Use:   "events:tail",
	Short: "Print the newest order events from the redis event list",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rdb, err := event.Connect(ctx)
		if err != nil {
			return err
		}
		defer rdb.Close()

		events, err := event.NewRedisPublisher(rdb, config.EventsRedisKey()).Recent(ctx, eventsTailCount)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		for _, e := range events {
			if err := enc.Encode(e); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	eventsTailCmd.Flags().IntVarP(&eventsTailCount, "count", "n", 20, "number of events to show")
}
