package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/rentals_backend/utils"
	"gorm.io/gorm"
)

// Room is a read-only lookup for the lease engine.
type Room struct {
	ID     int    `gorm:"primary_key" json:"id"`
	Number string `gorm:"size:20;not null" json:"number"`
	Type   string `gorm:"size:50" json:"type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type RoomDB struct {
	db *gorm.DB
}

func NewRoomDB(db *gorm.DB) *RoomDB {
	return &RoomDB{db: db}
}

func (s *RoomDB) Get(ctx context.Context, id int) (*Room, error) {
	var room Room
	if err := s.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: room %d", utils.ErrorRecordNotFound, id)
		}
		return nil, err
	}
	return &room, nil
}
