// internal/service/validate.go
package service

import (
	"math"
	"sort"
	"time"

	"go_nocontact_keep/internal/model"

	"github.com/google/uuid"
)

// ValidateRecord はスカラー値を有効範囲に丸め、補正したフィールド名を返します。
// 不正な値はエラーにせず、ここでの補正が唯一の修正手段です。
func ValidateRecord(r *model.ProgressRecord, now time.Time) []string {
	var clamped []string
	mark := func(field string) { clamped = append(clamped, field) }

	// プログラム日数は 1 に丸めず既定値に戻す
	if r.TotalProgramDays < 1 {
		r.TotalProgramDays = model.DefaultTotalProgramDays
		mark("total_program_days")
	}
	if r.RelapseCount < 0 {
		r.RelapseCount = 0
		mark("relapse_count")
	}
	if r.MaxStreak < 0 {
		r.MaxStreak = 0
		mark("max_streak")
	}
	if r.LifetimeBonusDays < 0 || math.IsNaN(r.LifetimeBonusDays) || math.IsInf(r.LifetimeBonusDays, 0) {
		r.LifetimeBonusDays = 0
		mark("lifetime_bonus_days")
	}

	level := model.LevelFromRaw(r.CurrentLevelRaw)
	if level.String() != r.CurrentLevelRaw {
		r.CurrentLevelRaw = level.String()
		mark("current_level")
	}
	if bonus := clampFloat(r.BonusDays, 0, level.MaxBonusDays()); bonus != r.BonusDays {
		r.BonusDays = bonus
		mark("bonus_days")
	}

	if fixDay(&r.ProgramStartDate, now) {
		mark("program_start_date")
	}
	if fixDay(&r.LevelStartDate, now) {
		mark("level_start_date")
	}
	if fixDay(&r.NoContactStartDate, now) {
		mark("no_contact_start_date")
	}
	if r.LastRelapseDate != nil {
		if r.LastRelapseDate.IsZero() {
			r.LastRelapseDate = nil
			mark("last_relapse_date")
		} else if fixDay(r.LastRelapseDate, now) {
			mark("last_relapse_date")
		}
	}
	return clamped
}

// fixDay は日付を日単位に正規化し未来を今日に丸めます。ゼロ値は今日にします
func fixDay(d *time.Time, now time.Time) bool {
	var fixed time.Time
	if d.IsZero() {
		fixed = model.StartOfDay(now)
	} else {
		fixed = model.ClampDay(*d, now)
	}
	if fixed.Equal(*d) {
		*d = fixed // 表現 (ロケーション) だけ揃える
		return false
	}
	*d = fixed
	return true
}

// fixInstant は日時 (時刻を保持する) の未来・ゼロ値を now に丸めます
func fixInstant(d *time.Time, now time.Time) bool {
	if d.IsZero() || d.After(now) {
		*d = now.UTC()
		return true
	}
	return false
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
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

// validateEntries は子行の日付と値を丸め、種類名を正規の表記に直して、変更した行 (保存が必要なもの) を返します
func validateEntries(e *model.Entries, now time.Time) []interface{} {
	var changed []interface{}
	for _, r := range e.Relapses {
		if fixDay(&r.Date, now) {
			changed = append(changed, r)
		}
	}
	for _, pa := range e.PowerActions {
		dirty := fixInstant(&pa.Date, now)
		if t, ok := model.ParsePowerAction(pa.ActionTypeRaw); ok && t.String() != pa.ActionTypeRaw {
			pa.ActionTypeRaw = t.String()
			dirty = true
		}
		if dirty {
			changed = append(changed, pa)
		}
	}
	for _, c := range e.CheckIns {
		dirty := fixDay(&c.Date, now)
		if m := clampInt(c.Mood, model.MinMood, model.MaxMood); m != c.Mood {
			c.Mood = m
			dirty = true
		}
		if u := clampInt(c.Urge, model.MinUrge, model.MaxUrge); u != c.Urge {
			c.Urge = u
			dirty = true
		}
		if dirty {
			changed = append(changed, c)
		}
	}
	for _, b := range e.Badges {
		dirty := fixInstant(&b.EarnedDate, now)
		if t, ok := model.ParseBadge(b.BadgeTypeRaw); ok && t.String() != b.BadgeTypeRaw {
			b.BadgeTypeRaw = t.String()
			dirty = true
		}
		if dirty {
			changed = append(changed, b)
		}
	}
	return changed
}

// removedEntries は重複として削除する子行のIDです
type removedEntries struct {
	Relapses     []uuid.UUID
	PowerActions []uuid.UUID
	CheckIns     []uuid.UUID
	Badges       []uuid.UUID
}

func (r removedEntries) counts() map[string]int {
	counts := map[string]int{}
	if n := len(r.Relapses); n > 0 {
		counts["relapses"] = n
	}
	if n := len(r.PowerActions); n > 0 {
		counts["power_actions"] = n
	}
	if n := len(r.CheckIns); n > 0 {
		counts["check_ins"] = n
	}
	if n := len(r.Badges); n > 0 {
		counts["badges"] = n
	}
	return counts
}

// dedupeEntries は識別キーごとに 1 行だけ残します。
//   - 再発日/チェックイン: 日付 (チェックインは最後に更新された行を残す)
//   - パワーアクション: ID、繰り返し不可の種類は最も古い 1 行
//   - バッジ: 種類 (最も古い 1 行)
func dedupeEntries(e model.Entries) (model.Entries, removedEntries) {
	var kept model.Entries
	var removed removedEntries

	seenDay := map[time.Time]bool{}
	for _, r := range e.Relapses {
		day := model.StartOfDay(r.Date)
		if seenDay[day] {
			removed.Relapses = append(removed.Relapses, r.EntryID)
			continue
		}
		seenDay[day] = true
		kept.Relapses = append(kept.Relapses, r)
	}

	powerActions := append([]*model.PowerActionEntry(nil), e.PowerActions...)
	sort.SliceStable(powerActions, func(i, j int) bool {
		if !powerActions[i].Date.Equal(powerActions[j].Date) {
			return powerActions[i].Date.Before(powerActions[j].Date)
		}
		return powerActions[i].CreatedAt.Before(powerActions[j].CreatedAt)
	})
	seenID := map[uuid.UUID]bool{}
	seenType := map[model.PowerActionType]bool{}
	for _, pa := range powerActions {
		if seenID[pa.EntryID] {
			removed.PowerActions = append(removed.PowerActions, pa.EntryID)
			continue
		}
		seenID[pa.EntryID] = true
		if t, ok := model.ParsePowerAction(pa.ActionTypeRaw); ok && !t.Repeatable() {
			if seenType[t] {
				removed.PowerActions = append(removed.PowerActions, pa.EntryID)
				continue
			}
			seenType[t] = true
		}
		kept.PowerActions = append(kept.PowerActions, pa)
	}

	latest := map[time.Time]*model.CheckInEntry{}
	var order []time.Time
	for _, c := range e.CheckIns {
		day := model.StartOfDay(c.Date)
		cur, ok := latest[day]
		if !ok {
			latest[day] = c
			order = append(order, day)
			continue
		}
		if c.UpdatedAt.After(cur.UpdatedAt) {
			removed.CheckIns = append(removed.CheckIns, cur.EntryID)
			latest[day] = c
		} else {
			removed.CheckIns = append(removed.CheckIns, c.EntryID)
		}
	}
	for _, day := range order {
		kept.CheckIns = append(kept.CheckIns, latest[day])
	}

	badges := append([]*model.BadgeEntry(nil), e.Badges...)
	sort.SliceStable(badges, func(i, j int) bool {
		return badges[i].EarnedDate.Before(badges[j].EarnedDate)
	})
	seenBadge := map[string]bool{}
	for _, b := range badges {
		key := badgeKey(b.BadgeTypeRaw)
		if seenBadge[key] {
			removed.Badges = append(removed.Badges, b.EntryID)
			continue
		}
		seenBadge[key] = true
		kept.Badges = append(kept.Badges, b)
	}
	return kept, removed
}

// badgeKey は既知の種類なら正規の名前、未知なら生の値を返します
func badgeKey(raw string) string {
	if t, ok := model.ParseBadge(raw); ok {
		return t.String()
	}
	return raw
}
