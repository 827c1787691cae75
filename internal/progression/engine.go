// Package progression は回復プログラムの状態遷移を扱います。
// すべての操作は (状態, イベント) -> (新しい状態, 副作用) の純粋関数で、入力の状態は変更しません。
package progression

import (
	"math"
	"time"

	"go_nocontact_keep/internal/model"

	"github.com/google/uuid"
)

// EffectKind は子コレクションに対する副作用の種類です
type EffectKind string

const (
	EffectRelapseAdded     EffectKind = "relapse_added"
	EffectPowerActionAdded EffectKind = "power_action_added"
	EffectCheckInAdded     EffectKind = "check_in_added"
	EffectCheckInUpdated   EffectKind = "check_in_updated"
	EffectBadgeAdded       EffectKind = "badge_added"
)

// Effect は永続層に追加・更新すべき子行 1 件分です。Kind に対応するフィールドだけが設定されます
type Effect struct {
	Kind        EffectKind
	RelapseDate time.Time
	PowerAction *model.PowerActionRecord
	CheckIn     *model.CheckIn
	Badge       *model.Badge
}

// Engine holds the only non-deterministic input of the state machine: id generation.
type Engine struct {
	NewID func() uuid.UUID
}

func NewEngine() Engine {
	return Engine{NewID: uuid.New}
}

func (e Engine) newID() uuid.UUID {
	if e.NewID == nil {
		return uuid.New()
	}
	return e.NewID()
}

// RecordRelapse は再発を記録します。レベルは変更せず、バッジ評価も行いません
func (e Engine) RecordRelapse(s model.ProgressionState, date time.Time) (model.ProgressionState, []Effect) {
	next := s.Clone()
	today := model.StartOfDay(date)

	if streak := s.CurrentStreakDays(today); streak > next.MaxStreak {
		next.MaxStreak = streak
	}

	last := today
	next.LastRelapseDate = &last
	next.NoContactStartDate = today
	next.RelapseCount++

	var effects []Effect
	if !next.HasRelapseOn(today) {
		next.RelapseDates = model.SortRelapseDates(append(next.RelapseDates, today))
		effects = append(effects, Effect{Kind: EffectRelapseAdded, RelapseDate: today})
	}

	next.LevelStartDate = today
	next.BonusDays = 0
	return next, effects
}

// RecordPowerAction はパワーアクションを追加し、ボーナス日数の加算・レベル判定・バッジ評価を続けて行います。
// 実行済みの繰り返し不可アクションや未知の種類は何もしません (エラーではありません)
func (e Engine) RecordPowerAction(s model.ProgressionState, t model.PowerActionType, date time.Time, note string) (model.ProgressionState, []Effect) {
	if !t.Valid() || (!t.Repeatable() && s.HasPowerAction(t)) {
		return s.Clone(), nil
	}

	next := s.Clone()
	record := model.PowerActionRecord{
		ID:   e.newID(),
		Type: t,
		Date: date.UTC(),
		Note: note,
	}
	next.PowerActions = append(next.PowerActions, record)
	effects := []Effect{{Kind: EffectPowerActionAdded, PowerAction: &record}}

	next.BonusDays = math.Min(next.BonusDays+t.BonusValue(), next.CurrentLevel.MaxBonusDays())
	next.LifetimeBonusDays += t.BonusValue()

	next, _ = e.AdvanceLevelIfEligible(next, date)

	var badgeEffects []Effect
	next, badgeEffects = e.EvaluateBadges(next, date)
	return next, append(effects, badgeEffects...)
}

// RecordCheckIn は 1 日 1 件のチェックインを upsert します。mood/urge は範囲内に丸めます
func (e Engine) RecordCheckIn(s model.ProgressionState, mood, urge int, note string, date time.Time) (model.ProgressionState, []Effect) {
	next := s.Clone()
	day := model.StartOfDay(date)
	mood = clampInt(mood, model.MinMood, model.MaxMood)
	urge = clampInt(urge, model.MinUrge, model.MaxUrge)

	if i := next.CheckInIndex(day); i >= 0 {
		next.CheckIns[i].Mood = mood
		next.CheckIns[i].Urge = urge
		next.CheckIns[i].Note = note
		updated := next.CheckIns[i]
		return next, []Effect{{Kind: EffectCheckInUpdated, CheckIn: &updated}}
	}

	c := model.CheckIn{ID: e.newID(), Date: day, Mood: mood, Urge: urge, Note: note}
	next.CheckIns = append(next.CheckIns, c)
	return next, []Effect{{Kind: EffectCheckInAdded, CheckIn: &c}}
}

// AdvanceLevelIfEligible は条件を満たしていれば 1 段階だけレベルを上げます。
// 2 段階分の条件を満たしていても 1 回の呼び出しで上がるのは 1 段階です
func (e Engine) AdvanceLevelIfEligible(s model.ProgressionState, currentDate time.Time) (model.ProgressionState, bool) {
	required := s.CurrentLevel.MinDaysRequired()
	if required == 0 {
		return s.Clone(), false
	}

	effective := float64(s.DaysInLevel(currentDate)) + s.BonusDays
	nextLevel, ok := s.CurrentLevel.Next()
	if effective < float64(required) || !ok {
		return s.Clone(), false
	}

	next := s.Clone()
	next.CurrentLevel = nextLevel
	next.LevelStartDate = model.StartOfDay(currentDate)
	next.BonusDays = 0
	return next, true
}

// EvaluateBadges は未獲得のバッジのうち条件を満たすものを追加します。冪等です
func (e Engine) EvaluateBadges(s model.ProgressionState, now time.Time) (model.ProgressionState, []Effect) {
	next := s.Clone()
	var effects []Effect
	for _, bt := range model.AllBadges() {
		if next.HasBadge(bt) || !badgeEarned(next, bt, now) {
			continue
		}
		b := model.Badge{ID: e.newID(), Type: bt, EarnedDate: now.UTC()}
		next.Badges = append(next.Badges, b)
		effects = append(effects, Effect{Kind: EffectBadgeAdded, Badge: &b})
	}
	return next, effects
}

func badgeEarned(s model.ProgressionState, bt model.BadgeType, now time.Time) bool {
	info := bt.Info()
	switch info.Kind {
	case model.BadgeKindStreak:
		return s.CurrentStreakDays(now) >= info.StreakDays
	case model.BadgeKindAction:
		return s.HasPowerAction(info.Action)
	case model.BadgeKindLevel:
		return s.CurrentLevel >= info.Level
	}
	return false
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
