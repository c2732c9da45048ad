package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/rentals_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaseAgreement is the rental contract document and its lifecycle state.
// Created as Draft by the surrounding CRUD layer; owned by the lease engine
// from first render onward. Never deleted here.
type LeaseAgreement struct {
	ID       int `gorm:"primary_key" json:"id"`
	TenantId int `gorm:"not null;index" json:"tenant_id"`
	RoomId   int `gorm:"not null;index" json:"room_id"`

	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	RentAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"rent_amount"`
	RentDueDay int             `gorm:"not null;default:1" json:"rent_due_day"`

	Status LeaseStatus `gorm:"size:20;not null;default:'Draft'" json:"status"`

	// Content is the rendered HTML; DocumentPath points at the generated
	// document in blob storage.
	Content      string `gorm:"type:longtext" json:"content"`
	DocumentPath string `gorm:"size:500" json:"document_path"`
	TemplateId   int    `json:"template_id"`

	RequiresSignature bool `gorm:"not null;default:true" json:"requires_signature"`
	IsSigned          bool `gorm:"not null;default:false" json:"is_signed"`

	GeneratedAt *time.Time `json:"generated_at"`
	SentAt      *time.Time `json:"sent_at"`
	SignedAt    *time.Time `json:"signed_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// NewLeaseAgreement is the draft-creation input from the outer CRUD layer.
type NewLeaseAgreement struct {
	TenantId   int             `json:"tenantId" validate:"required,gt=0"`
	RoomId     int             `json:"roomId" validate:"required,gt=0"`
	StartDate  time.Time       `json:"startDate" validate:"required"`
	EndDate    time.Time       `json:"endDate" validate:"required"`
	RentAmount decimal.Decimal `json:"rentAmount" validate:"required"`
	RentDueDay int             `json:"rentDueDay" validate:"required,gte=1,lte=31"`

	// RequiresSignature defaults to true when omitted.
	RequiresSignature *bool `json:"requiresSignature"`
}

// LeaseDB is the gorm-backed lease store.
type LeaseDB struct {
	db *gorm.DB
}

func NewLeaseDB(db *gorm.DB) *LeaseDB {
	return &LeaseDB{db: db}
}

func (s *LeaseDB) Get(ctx context.Context, id int) (*LeaseAgreement, error) {
	var lease LeaseAgreement
	if err := s.db.WithContext(ctx).First(&lease, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lease agreement %d", utils.ErrorRecordNotFound, id)
		}
		return nil, err
	}
	return &lease, nil
}

func (s *LeaseDB) Add(ctx context.Context, lease *LeaseAgreement) error {
	return s.db.WithContext(ctx).Create(lease).Error
}

func (s *LeaseDB) Update(ctx context.Context, lease *LeaseAgreement) error {
	return s.db.WithContext(ctx).Save(lease).Error
}

func (s *LeaseDB) List(ctx context.Context) ([]*LeaseAgreement, error) {
	var leases []*LeaseAgreement
	if err := s.db.WithContext(ctx).Order("id").Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// WithSigningLock serializes the signature check-then-create per lease.
// On MySQL this uses a connection-scoped advisory lock so it holds across
// instances; other dialects (sqlite in tests) run fn directly.
func (s *LeaseDB) WithSigningLock(ctx context.Context, leaseId int, fn func() error) error {
	if s.db.Dialector.Name() != "mysql" {
		return fn()
	}

	lockName := fmt.Sprintf("lease_signing:%d", leaseId)
	return s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		var ok int
		if err := conn.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
			return err
		}
		if ok != 1 {
			return fmt.Errorf("could not acquire signing lock for lease %d", leaseId)
		}
		defer func() {
			var released int
			_ = conn.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&released).Error
		}()
		return fn()
	})
}
