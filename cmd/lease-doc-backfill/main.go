// lease-doc-backfill regenerates lease documents whose file is missing from
// storage (lost uploads volume, bucket migration, or leases generated before
// the document pipeline existed).
//
// Signed leases are skipped: their document embeds the signature block and
// re-rendering here would replace it with an unsigned copy.
//
// Usage (from backend directory):
//   DB_USER=... DB_HOST=... go run ./cmd/lease-doc-backfill [-lease-id N] [-dry-run]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/roomledger/rentals_backend/workflow"
)

func main() {
	leaseId := flag.Int("lease-id", 0, "Optional: backfill only one lease. If 0, scans all leases.")
	dryRun := flag.Bool("dry-run", false, "List leases that would be regenerated without rendering anything.")
	flag.Parse()

	ctx := utils.EnsureCorrelationIdInContext(context.Background())
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	config.ConnectRedisWithRetry()

	engine, err := workflow.DefaultEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build engine: %v\n", err)
		os.Exit(1)
	}

	var leases []*models.LeaseAgreement
	if *leaseId > 0 {
		lease, err := engine.Leases.Get(ctx, *leaseId)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lease %d: %v\n", *leaseId, err)
			os.Exit(1)
		}
		leases = append(leases, lease)
	} else {
		leases, err = engine.Leases.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to list leases: %v\n", err)
			os.Exit(1)
		}
	}

	regenerated, skipped := 0, 0
	for _, lease := range leases {
		if !lease.Status.AtLeast(models.LeaseStatusGenerated) {
			skipped++
			continue
		}
		if lease.IsSigned {
			fmt.Printf("lease %d: signed, skipping (document carries the signature block)\n", lease.ID)
			skipped++
			continue
		}
		if lease.DocumentPath != "" {
			exists, err := engine.Storage.Exists(ctx, lease.DocumentPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "lease %d: storage check failed: %v\n", lease.ID, err)
				continue
			}
			if exists {
				skipped++
				continue
			}
		}

		if *dryRun {
			fmt.Printf("lease %d: document missing (path=%q), would regenerate\n", lease.ID, lease.DocumentPath)
			regenerated++
			continue
		}

		_, warning, err := engine.Render(ctx, lease.ID, lease.TemplateId)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lease %d: regenerate failed: %v\n", lease.ID, err)
			continue
		}
		if warning != "" {
			fmt.Printf("lease %d: regenerated with warning: %s\n", lease.ID, warning)
		} else {
			fmt.Printf("lease %d: regenerated\n", lease.ID)
		}
		regenerated++
	}

	fmt.Printf("Backfill complete: %d regenerated, %d skipped\n", regenerated, skipped)
}
