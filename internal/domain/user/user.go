package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is either a registered account (Email set) or an anonymous demo user.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email        *string        `gorm:"uniqueIndex;column:email" json:"email"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	IsDemo       bool           `gorm:"not null;default:false;column:is_demo" json:"is_demo"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TransferLink records that a demo user's data was claimed by a real account.
type TransferLink struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DemoUserID uuid.UUID  `gorm:"type:uuid;index;not null;column:demo_user_id" json:"demo_user_id"`
	RealUserID *uuid.UUID `gorm:"type:uuid;index;column:real_user_id" json:"real_user_id"`
	Claimed    bool       `gorm:"not null;default:false" json:"claimed"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (TransferLink) TableName() string { return "transfer_link" }

func (l *TransferLink) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
