package presentation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Presentation stores a generated deck. SlidesJSON holds
// {"slides": [...], "meta": {...}} as produced by the generation service.
type Presentation struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	Title      string         `gorm:"column:title" json:"title"`
	SlidesJSON datatypes.JSON `gorm:"column:slides_json" json:"slides_json"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Presentation) TableName() string { return "presentation" }

func (p *Presentation) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PromptHistory struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`
	InputText  string         `gorm:"not null;column:input_text" json:"input_text"`
	AIResponse datatypes.JSON `gorm:"column:ai_response" json:"ai_response"`
	CreatedAt  time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (PromptHistory) TableName() string { return "prompt_history" }

func (h *PromptHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
