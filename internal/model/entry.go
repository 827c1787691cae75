// internal/model/entry.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// RelapseEntry は再発日 1 件 (識別キーは日付)
type RelapseEntry struct {
	EntryID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (RelapseEntry) TableName() string {
	return "relapse_entries"
}

// PowerActionEntry (識別キーは EntryID、繰り返し不可の種類は 1 行まで)
type PowerActionEntry struct {
	EntryID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ActionTypeRaw string    `gorm:"not null"`
	Date          time.Time `gorm:"not null"`
	Note          string
	CreatedAt     time.Time
}

func (PowerActionEntry) TableName() string {
	return "power_action_entries"
}

// CheckInEntry (識別キーは日付、1 日 1 行)
type CheckInEntry struct {
	EntryID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Date      time.Time `gorm:"not null"`
	Mood      int       `gorm:"not null"`
	Urge      int       `gorm:"not null"`
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CheckInEntry) TableName() string {
	return "check_in_entries"
}

// BadgeEntry (識別キーはバッジの種類)
type BadgeEntry struct {
	EntryID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecordID     uuid.UUID `gorm:"type:uuid;not null;index"`
	BadgeTypeRaw string    `gorm:"not null"`
	EarnedDate   time.Time `gorm:"not null"`
	CreatedAt    time.Time
}

func (BadgeEntry) TableName() string {
	return "badge_entries"
}

// DurableModels は AutoMigrate 対象のモデル一覧です
func DurableModels() []interface{} {
	return []interface{}{
		&ProgressRecord{},
		&RelapseEntry{},
		&PowerActionEntry{},
		&CheckInEntry{},
		&BadgeEntry{},
	}
}

func NewRelapseEntry(recordID uuid.UUID, day time.Time) *RelapseEntry {
	return &RelapseEntry{EntryID: uuid.New(), RecordID: recordID, Date: StartOfDay(day)}
}

func NewPowerActionEntry(recordID uuid.UUID, pa PowerActionRecord) *PowerActionEntry {
	return &PowerActionEntry{
		EntryID:       pa.ID,
		RecordID:      recordID,
		ActionTypeRaw: pa.Type.String(),
		Date:          pa.Date,
		Note:          pa.Note,
	}
}

func NewCheckInEntry(recordID uuid.UUID, c CheckIn) *CheckInEntry {
	return &CheckInEntry{
		EntryID:  c.ID,
		RecordID: recordID,
		Date:     c.Date,
		Mood:     c.Mood,
		Urge:     c.Urge,
		Note:     c.Note,
	}
}

func NewBadgeEntry(recordID uuid.UUID, b Badge) *BadgeEntry {
	return &BadgeEntry{
		EntryID:      b.ID,
		RecordID:     recordID,
		BadgeTypeRaw: b.Type.String(),
		EarnedDate:   b.EarnedDate,
	}
}
