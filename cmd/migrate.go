package cmd

import (
	"errors"

	"github.com/ArnaudCalmettes/landslide/models"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/spf13/cobra"
)

var errNoDB = errors.New("no ledger database configured")

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Perform automatic ledger database migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if db == nil {
			return errNoDB
		}
		return db.Close()
	},
}

// Open and migrate the ledger. Returns a nil DB when the ledger is disabled.
func openDB() (*gorm.DB, error) {
	path, err := getPath("db")
	if err != nil || path == "" {
		return nil, err
	}
	db, err := gorm.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := models.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
