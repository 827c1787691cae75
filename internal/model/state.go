// internal/model/state.go
package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// PowerActionRecord は実行済みのパワーアクション 1 件です
type PowerActionRecord struct {
	ID   uuid.UUID       `json:"id"`
	Type PowerActionType `json:"-"`
	Date time.Time       `json:"date"`
	Note string          `json:"note,omitempty"`
}

// CheckIn は 1 日 1 件までの気分・衝動の記録です
type CheckIn struct {
	ID   uuid.UUID `json:"id"`
	Date time.Time `json:"date"`
	Mood int       `json:"mood"` // 1-5
	Urge int       `json:"urge"` // 0-10
	Note string    `json:"note,omitempty"`
}

// Badge は獲得済みのバッジです
type Badge struct {
	ID         uuid.UUID `json:"id"`
	Type       BadgeType `json:"-"`
	EarnedDate time.Time `json:"earned_date"`
}

const (
	MinMood = 1
	MaxMood = 5
	MinUrge = 0
	MaxUrge = 10
)

// DefaultTotalProgramDays はプログラム全体の既定日数です
const DefaultTotalProgramDays = 90

// ProgressionState は追跡中の全フィールドを保持します。
// 値として扱い、変更は progression パッケージの操作を通して新しい値を作ります。
type ProgressionState struct {
	ExPartnerName      string
	ProgramStartDate   time.Time
	TotalProgramDays   int
	LevelStartDate     time.Time
	CurrentLevel       HealingLevel
	NoContactStartDate time.Time
	LastRelapseDate    *time.Time
	RelapseCount       int
	MaxStreak          int
	BonusDays          float64
	LifetimeBonusDays  float64
	RelapseDates       []time.Time // 日単位、重複なし、昇順
	PowerActions       []PowerActionRecord
	CheckIns           []CheckIn
	Badges             []Badge
}

// NewProgressionState はプロセス起動時の day-zero の状態を返します
func NewProgressionState(now time.Time) ProgressionState {
	today := StartOfDay(now)
	return ProgressionState{
		ProgramStartDate:   today,
		TotalProgramDays:   DefaultTotalProgramDays,
		LevelStartDate:     today,
		CurrentLevel:       LevelWithdrawal,
		NoContactStartDate: today,
	}
}

// Clone returns a deep copy so callers can treat the original as immutable.
func (s ProgressionState) Clone() ProgressionState {
	c := s
	if s.LastRelapseDate != nil {
		d := *s.LastRelapseDate
		c.LastRelapseDate = &d
	}
	c.RelapseDates = append([]time.Time(nil), s.RelapseDates...)
	c.PowerActions = append([]PowerActionRecord(nil), s.PowerActions...)
	c.CheckIns = append([]CheckIn(nil), s.CheckIns...)
	c.Badges = append([]Badge(nil), s.Badges...)
	return c
}

// HasRelapseOn reports whether a relapse was recorded on the given day.
func (s ProgressionState) HasRelapseOn(day time.Time) bool {
	for _, d := range s.RelapseDates {
		if SameDay(d, day) {
			return true
		}
	}
	return false
}

// HasPowerAction reports whether at least one record of type t exists.
func (s ProgressionState) HasPowerAction(t PowerActionType) bool {
	for _, pa := range s.PowerActions {
		if pa.Type == t {
			return true
		}
	}
	return false
}

func (s ProgressionState) HasBadge(t BadgeType) bool {
	for _, b := range s.Badges {
		if b.Type == t {
			return true
		}
	}
	return false
}

// CheckInIndex は指定日のチェックインの位置を返します (なければ -1)
func (s ProgressionState) CheckInIndex(day time.Time) int {
	for i, c := range s.CheckIns {
		if SameDay(c.Date, day) {
			return i
		}
	}
	return -1
}

// SortRelapseDates normalizes the relapse-date set: day granularity,
// ascending, no duplicates.
func SortRelapseDates(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := StartOfDay(d)
		if seen[day] {
			continue
		}
		seen[day] = true
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
