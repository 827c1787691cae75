// internal/model/metrics.go
package model

import (
	"math"
	"time"
)

// DayStatus は週間ビューの 1 日分の状態です
type DayStatus string

const (
	DayNone     DayStatus = "none"
	DayClean    DayStatus = "clean"
	DayRelapsed DayStatus = "relapsed"
)

// Metrics は表示層や通知スケジューラが読む派生値のまとめです
type Metrics struct {
	DaysSinceProgramStart int          `json:"days_since_program_start"`
	DaysInLevel           int          `json:"days_in_level"`
	CurrentStreakDays     int          `json:"current_streak_days"`
	TotalHealingDays      int          `json:"total_healing_days"`
	DetoxProgress         float64      `json:"detox_progress"`
	LevelProgress         float64      `json:"level_progress"`
	DaysLeftInLevel       int          `json:"days_left_in_level"`
	WeeklyStatus          [7]DayStatus `json:"weekly_status"`
}

func (s ProgressionState) DaysSinceProgramStart(now time.Time) int {
	return maxInt(DaysBetween(s.ProgramStartDate, now), 0)
}

func (s ProgressionState) DaysInLevel(now time.Time) int {
	return maxInt(DaysBetween(s.LevelStartDate, now), 0)
}

// CurrentStreakDays is the number of days since NoContactStartDate, floored at 0.
func (s ProgressionState) CurrentStreakDays(now time.Time) int {
	return maxInt(DaysBetween(s.NoContactStartDate, now), 0)
}

func (s ProgressionState) TotalHealingDays(now time.Time) int {
	return s.CurrentStreakDays(now) + int(math.Floor(s.BonusDays))
}

func (s ProgressionState) DetoxProgress(now time.Time) float64 {
	total := s.TotalProgramDays
	if total < 1 {
		total = 1
	}
	return clamp01(float64(s.DaysSinceProgramStart(now)) / float64(total))
}

func (s ProgressionState) LevelProgress(now time.Time) float64 {
	required := s.CurrentLevel.MinDaysRequired()
	if required == 0 {
		return 1
	}
	return clamp01((float64(s.DaysInLevel(now)) + s.BonusDays) / float64(required))
}

func (s ProgressionState) DaysLeftInLevel(now time.Time) int {
	required := float64(s.CurrentLevel.MinDaysRequired())
	left := math.Ceil(required - (float64(s.DaysInLevel(now)) + s.BonusDays))
	if left < 0 {
		return 0
	}
	return int(left)
}

// WeeklyStatus は now を含む週 (月曜始まり, UTC) の 7 日分の状態を返します。
// プログラム開始前と未来の日は none、再発日は relapsed、それ以外は clean です。
func (s ProgressionState) WeeklyStatus(now time.Time) [7]DayStatus {
	var week [7]DayStatus
	today := StartOfDay(now)
	offset := (int(today.Weekday()) + 6) % 7 // Monday = 0
	monday := today.AddDate(0, 0, -offset)
	start := StartOfDay(s.ProgramStartDate)

	for i := range week {
		day := monday.AddDate(0, 0, i)
		switch {
		case day.Before(start) || day.After(today):
			week[i] = DayNone
		case s.HasRelapseOn(day):
			week[i] = DayRelapsed
		default:
			week[i] = DayClean
		}
	}
	return week
}

func (s ProgressionState) Metrics(now time.Time) Metrics {
	return Metrics{
		DaysSinceProgramStart: s.DaysSinceProgramStart(now),
		DaysInLevel:           s.DaysInLevel(now),
		CurrentStreakDays:     s.CurrentStreakDays(now),
		TotalHealingDays:      s.TotalHealingDays(now),
		DetoxProgress:         s.DetoxProgress(now),
		LevelProgress:         s.LevelProgress(now),
		DaysLeftInLevel:       s.DaysLeftInLevel(now),
		WeeklyStatus:          s.WeeklyStatus(now),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
