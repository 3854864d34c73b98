package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Card is one bilingual phrase pair plus a pronunciation guide.
// IDs are assigned server-side, never by the model.
type Card struct {
	ID         string `json:"id"`
	Portuguese string `json:"portuguese"`
	English    string `json:"english"`
	Phonetic   string `json:"phonetic"`
}

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// FlashcardPack is the persisted form of a generated pack. Cards are stored
// as a JSON-encoded array, matching the wire shape the generator produces.
type FlashcardPack struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug             string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	Description      string         `gorm:"column:description;not null" json:"description"`
	Emoji            string         `gorm:"column:emoji;not null" json:"emoji"`
	Category         string         `gorm:"column:category;not null;index" json:"category"`
	Difficulty       string         `gorm:"column:difficulty;not null;index" json:"difficulty"`
	EstimatedMinutes int            `gorm:"column:estimated_minutes;not null" json:"estimated_minutes"`
	Cards            datatypes.JSON `gorm:"column:cards;type:jsonb" json:"cards"`
	OwnerID          string         `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Visibility       string         `gorm:"column:visibility;not null;default:public;index" json:"visibility"`
	CreatedAt        time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now();index" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (FlashcardPack) TableName() string { return "flashcard_pack" }

// DecodeCards parses the stored card array. A corrupt column yields an empty
// slice rather than an error so read paths keep working.
func (p *FlashcardPack) DecodeCards() []Card {
	if p == nil || len(p.Cards) == 0 {
		return []Card{}
	}
	var cards []Card
	if err := json.Unmarshal(p.Cards, &cards); err != nil {
		return []Card{}
	}
	return cards
}

// PackSummary is the slice of pack metadata the augmenter needs to match
// register and difficulty without shipping the whole row.
type PackSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}
