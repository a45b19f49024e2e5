// Command delish runs the food ordering service and its maintenance tasks.
//
//	delish serve            # migrate the data directory, then listen on APP_PORT
//	delish migrate          # convert or create cart.json and exit
//	delish route:list       # print the route table
//	delish janitor:run      # sweep abandoned temp files once
//	delish events:tail      # show recent order events from redis
//	delish user:add         # add an admin or vendor to users.json
//	delish user:hash        # print a bcrypt hash for a password
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "delish",
	Short:         "delish food ordering service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Data
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(janitorRunCmd)
	rootCmd.AddCommand(eventsTailCmd)

	// Users
	rootCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userHashCmd)
}
