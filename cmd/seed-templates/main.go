// seed-templates ensures the built-in default lease template exists. Safe to
// run repeatedly: an existing default (built-in or admin-created) is left
// alone.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-templates
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	models.MigrateTable()

	templates := models.NewTemplateDB(db)
	existing, err := templates.Default(ctx)
	if err == nil {
		fmt.Printf("Default template already present: id=%d name=%q\n", existing.ID, existing.Name)
		return
	}
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		fmt.Fprintf(os.Stderr, "failed to look up default template: %v\n", err)
		os.Exit(1)
	}

	template := models.BuiltinDefaultTemplate()
	if err := templates.Add(ctx, template); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create built-in template: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created built-in default template: id=%d name=%q\n", template.ID, template.Name)
}
