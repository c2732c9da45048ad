// lease-register-export writes the lease register to an xlsx workbook for the
// back office (one row per lease, tenant and room resolved to names).
//
// Usage (from backend directory):
//   DB_USER=... DB_HOST=... go run ./cmd/lease-register-export [-out leases.xlsx] [-status Sent]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/xuri/excelize/v2"
)

var headers = []string{
	"Lease ID", "Tenant", "Room", "Status", "Start Date", "End Date",
	"Monthly Rent", "Rent Due", "Signed", "Generated At", "Sent At", "Signed At",
}

func main() {
	out := flag.String("out", "leases.xlsx", "Output xlsx path")
	status := flag.String("status", "", "Optional: only export leases in this status (e.g. Sent)")
	flag.Parse()

	if *status != "" && !models.LeaseStatus(*status).IsValid() {
		fmt.Fprintf(os.Stderr, "unknown status %q\n", *status)
		os.Exit(1)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	leaseDB := models.NewLeaseDB(db)
	tenantDB := models.NewTenantDB(db)
	roomDB := models.NewRoomDB(db)

	leases, err := leaseDB.List(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to list leases: %v\n", err)
		os.Exit(1)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Lease Register"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, lease := range leases {
		if *status != "" && lease.Status != models.LeaseStatus(*status) {
			continue
		}

		tenantName := fmt.Sprintf("tenant %d", lease.TenantId)
		if tenant, err := tenantDB.Get(ctx, lease.TenantId); err == nil {
			tenantName = tenant.Name
		}
		roomNumber := fmt.Sprintf("room %d", lease.RoomId)
		if room, err := roomDB.Get(ctx, lease.RoomId); err == nil {
			roomNumber = room.Number
		}

		values := []any{
			lease.ID,
			tenantName,
			roomNumber,
			string(lease.Status),
			lease.StartDate.Format("2006-01-02"),
			lease.EndDate.Format("2006-01-02"),
			utils.FormatMoney(lease.RentAmount),
			utils.OrdinalDay(lease.RentDueDay),
			lease.IsSigned,
			formatTimestamp(lease.GeneratedAt),
			formatTimestamp(lease.SentAt),
			formatTimestamp(lease.SignedAt),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	if err := f.SaveAs(*out); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d leases to %s\n", row-2, *out)
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
