// internal/model/progress.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord は永続化される唯一のレコード (スカラー部分) です。
// 子コレクションは record_id で紐づく 4 つのテーブルに保存されます。
type ProgressRecord struct {
	RecordID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExPartnerName      string    `gorm:"not null;default:''"`
	ProgramStartDate   time.Time `gorm:"not null;index"`
	TotalProgramDays   int       `gorm:"not null;default:90"`
	LevelStartDate     time.Time `gorm:"not null"`
	CurrentLevelRaw    string    `gorm:"not null;default:''"` // 旧スキーマでは整数文字列
	NoContactStartDate time.Time `gorm:"not null"`
	LastRelapseDate    *time.Time
	RelapseCount       int     `gorm:"not null;default:0"`
	MaxStreak          int     `gorm:"not null;default:0"`
	BonusDays          float64 `gorm:"not null;default:0"`
	LifetimeBonusDays  float64 `gorm:"not null;default:0"`
	SchemaVersion      int     `gorm:"not null;default:0"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (ProgressRecord) TableName() string {
	return "progress_records"
}

// Entries は 1 レコード分の子コレクションです
type Entries struct {
	Relapses     []*RelapseEntry
	PowerActions []*PowerActionEntry
	CheckIns     []*CheckInEntry
	Badges       []*BadgeEntry
}

// ApplyState は状態のスカラー値をレコードへコピーします (子コレクションは対象外)
func (r *ProgressRecord) ApplyState(s ProgressionState) {
	r.ExPartnerName = s.ExPartnerName
	r.ProgramStartDate = s.ProgramStartDate
	r.TotalProgramDays = s.TotalProgramDays
	r.LevelStartDate = s.LevelStartDate
	r.CurrentLevelRaw = s.CurrentLevel.String()
	r.NoContactStartDate = s.NoContactStartDate
	if s.LastRelapseDate != nil {
		d := *s.LastRelapseDate
		r.LastRelapseDate = &d
	} else {
		r.LastRelapseDate = nil
	}
	r.RelapseCount = s.RelapseCount
	r.MaxStreak = s.MaxStreak
	r.BonusDays = s.BonusDays
	r.LifetimeBonusDays = s.LifetimeBonusDays
}

// NewProgressRecord builds a record holding the scalars of s at the current schema version.
func NewProgressRecord(s ProgressionState, schemaVersion int) *ProgressRecord {
	r := &ProgressRecord{
		RecordID:      uuid.New(),
		SchemaVersion: schemaVersion,
	}
	r.ApplyState(s)
	return r
}

// ToState はレコードと子コレクションから状態を復元します。
// 解釈できない種類の行と、同じ種類の 2 件目以降のバッジは skipped に数えて読み飛ばします。
func (r *ProgressRecord) ToState(e Entries) (s ProgressionState, skipped int) {
	s = ProgressionState{
		ExPartnerName:      r.ExPartnerName,
		ProgramStartDate:   r.ProgramStartDate,
		TotalProgramDays:   r.TotalProgramDays,
		LevelStartDate:     r.LevelStartDate,
		CurrentLevel:       LevelFromRaw(r.CurrentLevelRaw),
		NoContactStartDate: r.NoContactStartDate,
		RelapseCount:       r.RelapseCount,
		MaxStreak:          r.MaxStreak,
		BonusDays:          r.BonusDays,
		LifetimeBonusDays:  r.LifetimeBonusDays,
	}
	if r.LastRelapseDate != nil {
		d := *r.LastRelapseDate
		s.LastRelapseDate = &d
	}

	dates := make([]time.Time, 0, len(e.Relapses))
	for _, rel := range e.Relapses {
		dates = append(dates, rel.Date)
	}
	s.RelapseDates = SortRelapseDates(dates)

	for _, pa := range e.PowerActions {
		t, ok := ParsePowerAction(pa.ActionTypeRaw)
		if !ok {
			skipped++
			continue
		}
		s.PowerActions = append(s.PowerActions, PowerActionRecord{ID: pa.EntryID, Type: t, Date: pa.Date, Note: pa.Note})
	}
	for _, c := range e.CheckIns {
		s.CheckIns = append(s.CheckIns, CheckIn{ID: c.EntryID, Date: c.Date, Mood: c.Mood, Urge: c.Urge, Note: c.Note})
	}
	for _, b := range e.Badges {
		t, ok := ParseBadge(b.BadgeTypeRaw)
		if !ok || s.HasBadge(t) {
			skipped++
			continue
		}
		s.Badges = append(s.Badges, Badge{ID: b.EntryID, Type: t, EarnedDate: b.EarnedDate})
	}
	return s, skipped
}
