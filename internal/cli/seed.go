package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bilalammar/library-management-system/internal/config"
	"github.com/bilalammar/library-management-system/internal/logger"
	"github.com/bilalammar/library-management-system/library"
)

var seedCmd = &cobra.Command{
	Use:   "seed [csv-file]",
	Short: "Import or refresh the book catalogue from a CSV file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		path := cfg.SeedPath
		if len(args) == 1 {
			path = args[0]
		}

		log := logger.New(cfg.LogLevel)

		store, err := library.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := library.SeedBooksCSV(store, path, log); err != nil {
			return err
		}
		fmt.Println("Catalogue import complete.")
		return nil
	},
}
