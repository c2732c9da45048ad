package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/rentals_backend/utils"
	"gorm.io/gorm"
)

// DigitalSignature records a tenant's captured signature for one lease.
// One row per lease; created exactly once by the signing operation and only
// verification metadata may change afterwards.
type DigitalSignature struct {
	ID       int `gorm:"primary_key" json:"id"`
	LeaseId  int `gorm:"not null;uniqueIndex" json:"lease_id"`
	TenantId int `gorm:"not null;index" json:"tenant_id"`

	SignedAt  time.Time `gorm:"not null" json:"signed_at"`
	ImagePath string    `gorm:"size:500;not null" json:"image_path"`

	SignerIpAddress string `gorm:"size:64" json:"signer_ip_address"`
	SignerUserAgent string `gorm:"size:500" json:"signer_user_agent"`
	Note            string `gorm:"size:1000" json:"note"`

	VerificationHash string `gorm:"size:128;not null" json:"verification_hash"`
	IsVerified       bool   `gorm:"not null;default:false" json:"is_verified"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// SignatureDB is the gorm-backed signature store.
type SignatureDB struct {
	db *gorm.DB
}

func NewSignatureDB(db *gorm.DB) *SignatureDB {
	return &SignatureDB{db: db}
}

func (s *SignatureDB) GetByLease(ctx context.Context, leaseId int) (*DigitalSignature, error) {
	var signature DigitalSignature
	err := s.db.WithContext(ctx).Where("lease_id = ?", leaseId).First(&signature).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: signature for lease %d", utils.ErrorRecordNotFound, leaseId)
		}
		return nil, err
	}
	return &signature, nil
}

func (s *SignatureDB) Add(ctx context.Context, signature *DigitalSignature) error {
	return s.db.WithContext(ctx).Create(signature).Error
}
