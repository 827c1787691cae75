// internal/model/request.go
package model

import "time"

// RecordRelapseRequest は再発記録リクエストのDTO (date 省略時は今日)
type RecordRelapseRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// RecordPowerActionRequest はパワーアクション記録リクエストのDTO
type RecordPowerActionRequest struct {
	Type string `json:"type" validate:"required,power_action"`
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Note string `json:"note" validate:"max=500"`
}

// RecordCheckInRequest は範囲外の mood/urge を拒否せず、サービス側で丸めます
type RecordCheckInRequest struct {
	Mood *int   `json:"mood" validate:"required"`
	Urge *int   `json:"urge" validate:"required"`
	Note string `json:"note" validate:"max=1000"`
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ProgressResponse は状態と派生値をまとめたレスポンスDTO
type ProgressResponse struct {
	ExPartnerName      string                `json:"ex_partner_name"`
	ProgramStartDate   time.Time             `json:"program_start_date"`
	TotalProgramDays   int                   `json:"total_program_days"`
	LevelStartDate     time.Time             `json:"level_start_date"`
	CurrentLevel       string                `json:"current_level"`
	NoContactStartDate time.Time             `json:"no_contact_start_date"`
	LastRelapseDate    *time.Time            `json:"last_relapse_date,omitempty"`
	RelapseCount       int                   `json:"relapse_count"`
	MaxStreak          int                   `json:"max_streak"`
	BonusDays          float64               `json:"bonus_days"`
	LifetimeBonusDays  float64               `json:"lifetime_bonus_days"`
	RelapseDates       []time.Time           `json:"relapse_dates"`
	PowerActions       []PowerActionResponse `json:"power_actions"`
	CheckIns           []CheckIn             `json:"check_ins"`
	Badges             []BadgeResponse       `json:"badges"`
	Metrics            Metrics               `json:"metrics"`
	Persisted          bool                  `json:"persisted"`
	Warning            string                `json:"warning,omitempty"`
}

type PowerActionResponse struct {
	PowerActionRecord
	Type string `json:"type"`
}

type BadgeResponse struct {
	Badge
	Type  string `json:"type"`
	Title string `json:"title"`
}

// NewProgressResponse は状態と now から表示用のレスポンスを組み立てます
func NewProgressResponse(s ProgressionState, now time.Time) *ProgressResponse {
	resp := &ProgressResponse{
		ExPartnerName:      s.ExPartnerName,
		ProgramStartDate:   s.ProgramStartDate,
		TotalProgramDays:   s.TotalProgramDays,
		LevelStartDate:     s.LevelStartDate,
		CurrentLevel:       s.CurrentLevel.String(),
		NoContactStartDate: s.NoContactStartDate,
		LastRelapseDate:    s.LastRelapseDate,
		RelapseCount:       s.RelapseCount,
		MaxStreak:          s.MaxStreak,
		BonusDays:          s.BonusDays,
		LifetimeBonusDays:  s.LifetimeBonusDays,
		RelapseDates:       append([]time.Time{}, s.RelapseDates...),
		PowerActions:       make([]PowerActionResponse, 0, len(s.PowerActions)),
		CheckIns:           append([]CheckIn{}, s.CheckIns...),
		Badges:             make([]BadgeResponse, 0, len(s.Badges)),
		Metrics:            s.Metrics(now),
		Persisted:          true,
	}
	for _, pa := range s.PowerActions {
		resp.PowerActions = append(resp.PowerActions, PowerActionResponse{PowerActionRecord: pa, Type: pa.Type.String()})
	}
	for _, b := range s.Badges {
		resp.Badges = append(resp.Badges, BadgeResponse{Badge: b, Type: b.Type.String(), Title: b.Type.Info().Title})
	}
	return resp
}
