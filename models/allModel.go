package models

import (
	"log"

	"github.com/roomledger/rentals_backend/config"
)

// MigrateTable keeps the lease engine's schema up to date. Tenant and Room
// are included so the engine can run standalone in dev and in tests; in the
// full back office they are owned (and migrated) by the CRUD layer.
func MigrateTable() {
	db := config.GetDB()
	if db == nil {
		log.Fatal("database not initialized; call config.ConnectDatabaseWithRetry first")
	}

	err := db.AutoMigrate(
		&Tenant{},
		&Room{},
		&LeaseTemplate{},
		&LeaseAgreement{},
		&DigitalSignature{},
	)
	if err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	}
}
