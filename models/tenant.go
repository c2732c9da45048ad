package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/rentals_backend/utils"
	"gorm.io/gorm"
)

// Tenant is a read-only lookup for the lease engine; tenant CRUD lives in
// the surrounding back office.
type Tenant struct {
	ID    int    `gorm:"primary_key" json:"id"`
	Name  string `gorm:"size:150;not null" json:"name"`
	Email string `gorm:"size:150" json:"email"`
	Phone string `gorm:"size:32" json:"phone"`

	EmergencyContactName  string `gorm:"size:150" json:"emergency_contact_name"`
	EmergencyContactPhone string `gorm:"size:32" json:"emergency_contact_phone"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// EmergencyContact renders name and phone as one display line.
func (t *Tenant) EmergencyContact() string {
	if t.EmergencyContactName == "" {
		return utils.FormatPhoneForDisplay(t.EmergencyContactPhone)
	}
	if t.EmergencyContactPhone == "" {
		return t.EmergencyContactName
	}
	return fmt.Sprintf("%s (%s)", t.EmergencyContactName, utils.FormatPhoneForDisplay(t.EmergencyContactPhone))
}

type TenantDB struct {
	db *gorm.DB
}

func NewTenantDB(db *gorm.DB) *TenantDB {
	return &TenantDB{db: db}
}

func (s *TenantDB) Get(ctx context.Context, id int) (*Tenant, error) {
	var tenant Tenant
	if err := s.db.WithContext(ctx).First(&tenant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tenant %d", utils.ErrorRecordNotFound, id)
		}
		return nil, err
	}
	return &tenant, nil
}
