package workflow

import (
	"context"
	"time"

	"github.com/roomledger/rentals_backend/config"
	"github.com/roomledger/rentals_backend/models"
	"github.com/roomledger/rentals_backend/pdf"
	"github.com/roomledger/rentals_backend/utils"
	"github.com/sirupsen/logrus"
)

// The engine talks to the rest of the back office through these narrow
// interfaces. models provides the gorm implementations; tests use the
// in-memory fakes.

type LeaseStore interface {
	Get(ctx context.Context, id int) (*models.LeaseAgreement, error)
	Add(ctx context.Context, lease *models.LeaseAgreement) error
	Update(ctx context.Context, lease *models.LeaseAgreement) error
	List(ctx context.Context) ([]*models.LeaseAgreement, error)

	// WithSigningLock serializes the signature check-then-create per lease.
	WithSigningLock(ctx context.Context, leaseId int, fn func() error) error
}

type TemplateStore interface {
	Get(ctx context.Context, id int) (*models.LeaseTemplate, error)
	ListActive(ctx context.Context) ([]*models.LeaseTemplate, error)
	Add(ctx context.Context, template *models.LeaseTemplate) error
	Update(ctx context.Context, template *models.LeaseTemplate) error
	Delete(ctx context.Context, id int) error
	Default(ctx context.Context) (*models.LeaseTemplate, error)
}

type SignatureStore interface {
	GetByLease(ctx context.Context, leaseId int) (*models.DigitalSignature, error)
	Add(ctx context.Context, signature *models.DigitalSignature) error
}

type TenantReader interface {
	Get(ctx context.Context, id int) (*models.Tenant, error)
}

type RoomReader interface {
	Get(ctx context.Context, id int) (*models.Room, error)
}

// DocumentRenderer is the degrade-gracefully document pipeline (pdf package).
type DocumentRenderer interface {
	Render(ctx context.Context, html string) (data []byte, warning string, err error)
}

// Notifier delivers lease notifications (email/SMS). The engine only ever
// calls it best-effort; delivery is owned by the outer system.
type Notifier interface {
	LeaseSent(ctx context.Context, lease *models.LeaseAgreement, tenant *models.Tenant) error
}

type NoopNotifier struct{}

func (NoopNotifier) LeaseSent(ctx context.Context, lease *models.LeaseAgreement, tenant *models.Tenant) error {
	return nil
}

// LeaseEngine drives the lease document lifecycle: render, dispatch, sign,
// plus template management and access control.
type LeaseEngine struct {
	Leases     LeaseStore
	Templates  TemplateStore
	Signatures SignatureStore
	Tenants    TenantReader
	Rooms      RoomReader

	Storage   utils.Storage
	Generator DocumentRenderer
	Notifier  Notifier

	// Now is the clock; UTC for audit fields, local only for display.
	Now func() time.Time

	logger *logrus.Logger
}

func NewLeaseEngine(
	leases LeaseStore,
	templates TemplateStore,
	signatures SignatureStore,
	tenants TenantReader,
	rooms RoomReader,
	storage utils.Storage,
	generator DocumentRenderer,
	notifier Notifier,
	logger *logrus.Logger,
) *LeaseEngine {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if logger == nil {
		logger = config.GetLogger()
	}
	return &LeaseEngine{
		Leases:     leases,
		Templates:  templates,
		Signatures: signatures,
		Tenants:    tenants,
		Rooms:      rooms,
		Storage:    storage,
		Generator:  generator,
		Notifier:   notifier,
		Now:        time.Now,
		logger:     logger,
	}
}

// DefaultEngine wires the engine against the process database and the
// storage backend selected by env. Call after config.ConnectDatabaseWithRetry.
func DefaultEngine() (*LeaseEngine, error) {
	db := config.GetDB()
	storage, err := utils.NewStorageFromEnv()
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger()
	return NewLeaseEngine(
		models.NewLeaseDB(db),
		models.NewTemplateDB(db),
		models.NewSignatureDB(db),
		models.NewTenantDB(db),
		models.NewRoomDB(db),
		storage,
		pdf.NewGenerator(logger),
		NoopNotifier{},
		logger,
	), nil
}
