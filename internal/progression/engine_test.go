package progression

import (
	"math/rand"
	"testing"
	"time"

	"go_nocontact_keep/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 20, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return model.StartOfDay(testNow).AddDate(0, 0, -n)
}

// 連番のIDを返すエンジン (テストの再現性のため)
func newTestEngine() Engine {
	var n uint32
	return Engine{NewID: func() uuid.UUID {
		n++
		var id uuid.UUID
		id[12], id[13], id[14], id[15] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
		return id
	}}
}

func baseState() model.ProgressionState {
	s := model.NewProgressionState(testNow)
	s.ExPartnerName = "Alex"
	return s
}

func assertBonusInvariant(t *testing.T, s model.ProgressionState) {
	t.Helper()
	assert.GreaterOrEqual(t, s.BonusDays, 0.0)
	assert.LessOrEqual(t, s.BonusDays, s.CurrentLevel.MaxBonusDays())
}

func TestRecordRelapse(t *testing.T) {
	e := newTestEngine()

	t.Run("raises max streak and resets the streak", func(t *testing.T) {
		s := baseState()
		s.NoContactStartDate = daysAgo(15)
		s.LevelStartDate = daysAgo(15)
		s.RelapseCount = 3
		s.MaxStreak = 10
		s.BonusDays = 2
		require.Equal(t, 15, s.CurrentStreakDays(testNow))

		next, effects := e.RecordRelapse(s, testNow)

		assert.Equal(t, 15, next.MaxStreak)
		assert.Equal(t, 4, next.RelapseCount)
		assert.Equal(t, 0, next.CurrentStreakDays(testNow))
		assert.Equal(t, model.StartOfDay(testNow), next.NoContactStartDate)
		assert.Equal(t, model.StartOfDay(testNow), next.LevelStartDate)
		require.NotNil(t, next.LastRelapseDate)
		assert.Equal(t, model.StartOfDay(testNow), *next.LastRelapseDate)
		assert.Equal(t, 0.0, next.BonusDays)
		require.Len(t, effects, 1)
		assert.Equal(t, EffectRelapseAdded, effects[0].Kind)

		// 入力の状態は変更されない
		assert.Equal(t, 3, s.RelapseCount)
		assert.Empty(t, s.RelapseDates)
	})

	t.Run("keeps max streak when the current streak is shorter", func(t *testing.T) {
		s := baseState()
		s.NoContactStartDate = daysAgo(3)
		s.MaxStreak = 40

		next, _ := e.RecordRelapse(s, testNow)
		assert.Equal(t, 40, next.MaxStreak)
	})

	t.Run("does not change the level", func(t *testing.T) {
		s := baseState()
		s.CurrentLevel = model.LevelClarity
		next, _ := e.RecordRelapse(s, testNow)
		assert.Equal(t, model.LevelClarity, next.CurrentLevel)
	})

	t.Run("second relapse on the same day adds no date", func(t *testing.T) {
		s := baseState()
		first, _ := e.RecordRelapse(s, testNow)
		second, effects := e.RecordRelapse(first, testNow.Add(2*time.Hour))

		assert.Len(t, second.RelapseDates, 1)
		assert.Empty(t, effects)
		assert.Equal(t, 2, second.RelapseCount)
	})

	t.Run("does not evaluate badges", func(t *testing.T) {
		s := baseState()
		s.NoContactStartDate = daysAgo(8)
		next, _ := e.RecordRelapse(s, testNow)
		assert.Empty(t, next.Badges)
	})
}

func TestRecordPowerAction(t *testing.T) {
	e := newTestEngine()

	t.Run("non-repeatable type is recorded once", func(t *testing.T) {
		s := baseState()
		s, effects := e.RecordPowerAction(s, model.ActionDeleteNumber, testNow, "done")
		require.NotEmpty(t, effects)
		assert.Equal(t, EffectPowerActionAdded, effects[0].Kind)
		assert.Equal(t, 1.0, s.BonusDays)

		again, effects := e.RecordPowerAction(s, model.ActionDeleteNumber, testNow, "again")
		assert.Empty(t, effects)
		assert.Len(t, again.PowerActions, 1)
		assert.Equal(t, 1.0, again.BonusDays)
	})

	t.Run("repeatable type appends every time", func(t *testing.T) {
		s := baseState()
		for i := 0; i < 3; i++ {
			s, _ = e.RecordPowerAction(s, model.ActionJournaling, testNow, "")
		}
		assert.Len(t, s.PowerActions, 3)
		assert.Equal(t, 1.5, s.BonusDays)
	})

	t.Run("bonus days are capped by the level", func(t *testing.T) {
		s := baseState()
		for i := 0; i < 20; i++ {
			s, _ = e.RecordPowerAction(s, model.ActionExercise, testNow, "")
			assertBonusInvariant(t, s)
		}
		assert.Equal(t, model.LevelWithdrawal.MaxBonusDays(), s.BonusDays)
		assert.Equal(t, 10.0, s.LifetimeBonusDays, "lifetime bonus accumulates before the cap")
	})

	t.Run("unknown type is a no-op", func(t *testing.T) {
		s := baseState()
		next, effects := e.RecordPowerAction(s, model.PowerActionType(99), testNow, "")
		assert.Empty(t, effects)
		assert.Empty(t, next.PowerActions)
	})

	t.Run("triggers level advance and badge evaluation", func(t *testing.T) {
		s := baseState()
		s.LevelStartDate = daysAgo(13)
		s.NoContactStartDate = daysAgo(13)

		next, effects := e.RecordPowerAction(s, model.ActionDeleteNumber, testNow, "")

		assert.Equal(t, model.LevelDetox, next.CurrentLevel)
		assert.Equal(t, 0.0, next.BonusDays)
		assert.True(t, next.HasBadge(model.BadgeNumberDeleted))
		assert.True(t, next.HasBadge(model.BadgeReachedDetox))
		assert.True(t, next.HasBadge(model.BadgeStreak7))
		assert.False(t, next.HasBadge(model.BadgeStreak14))

		kinds := map[EffectKind]int{}
		for _, ef := range effects {
			kinds[ef.Kind]++
		}
		assert.Equal(t, 1, kinds[EffectPowerActionAdded])
		assert.Equal(t, len(next.Badges), kinds[EffectBadgeAdded])
	})
}

func TestRecordCheckIn(t *testing.T) {
	e := newTestEngine()

	t.Run("same day overwrites in place", func(t *testing.T) {
		s := baseState()
		s, effects := e.RecordCheckIn(s, 2, 8, "rough", testNow)
		require.Len(t, effects, 1)
		assert.Equal(t, EffectCheckInAdded, effects[0].Kind)
		firstID := s.CheckIns[0].ID

		s, effects = e.RecordCheckIn(s, 4, 3, "better", testNow.Add(3*time.Hour))
		require.Len(t, s.CheckIns, 1)
		require.Len(t, effects, 1)
		assert.Equal(t, EffectCheckInUpdated, effects[0].Kind)
		assert.Equal(t, firstID, s.CheckIns[0].ID)
		assert.Equal(t, 4, s.CheckIns[0].Mood)
		assert.Equal(t, 3, s.CheckIns[0].Urge)
		assert.Equal(t, "better", s.CheckIns[0].Note)
	})

	t.Run("different days append", func(t *testing.T) {
		s := baseState()
		s, _ = e.RecordCheckIn(s, 3, 3, "", daysAgo(1))
		s, _ = e.RecordCheckIn(s, 3, 3, "", testNow)
		assert.Len(t, s.CheckIns, 2)
	})

	t.Run("clamps mood and urge", func(t *testing.T) {
		tests := []struct {
			name               string
			mood, urge         int
			wantMood, wantUrge int
		}{
			{"below range", -3, -1, model.MinMood, model.MinUrge},
			{"above range", 9, 42, model.MaxMood, model.MaxUrge},
			{"in range", 3, 5, 3, 5},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				s, _ := e.RecordCheckIn(baseState(), tt.mood, tt.urge, "", testNow)
				assert.Equal(t, tt.wantMood, s.CheckIns[0].Mood)
				assert.Equal(t, tt.wantUrge, s.CheckIns[0].Urge)
				assert.Equal(t, model.StartOfDay(testNow), s.CheckIns[0].Date)
			})
		}
	})
}

func TestAdvanceLevelIfEligible(t *testing.T) {
	e := newTestEngine()

	t.Run("days in level plus bonus meets the threshold", func(t *testing.T) {
		s := baseState()
		s.LevelStartDate = daysAgo(12)
		s.BonusDays = 2

		next, advanced := e.AdvanceLevelIfEligible(s, testNow)
		assert.True(t, advanced)
		assert.Equal(t, model.LevelDetox, next.CurrentLevel)
		assert.Equal(t, 0.0, next.BonusDays)
		assert.Equal(t, model.StartOfDay(testNow), next.LevelStartDate)
	})

	t.Run("below the threshold", func(t *testing.T) {
		s := baseState()
		s.LevelStartDate = daysAgo(12)
		s.BonusDays = 1.5

		next, advanced := e.AdvanceLevelIfEligible(s, testNow)
		assert.False(t, advanced)
		assert.Equal(t, model.LevelWithdrawal, next.CurrentLevel)
		assert.Equal(t, 1.5, next.BonusDays)
	})

	t.Run("advances a single level even when two thresholds are met", func(t *testing.T) {
		s := baseState()
		s.LevelStartDate = daysAgo(14 + 21 + 5)

		next, advanced := e.AdvanceLevelIfEligible(s, testNow)
		assert.True(t, advanced)
		assert.Equal(t, model.LevelDetox, next.CurrentLevel)
	})

	t.Run("terminal level is a no-op", func(t *testing.T) {
		s := baseState()
		s.CurrentLevel = model.LevelFreedom
		s.LevelStartDate = daysAgo(400)

		next, advanced := e.AdvanceLevelIfEligible(s, testNow)
		assert.False(t, advanced)
		assert.Equal(t, model.LevelFreedom, next.CurrentLevel)
	})

	t.Run("never decreases the level", func(t *testing.T) {
		for _, lvl := range model.AllLevels() {
			s := baseState()
			s.CurrentLevel = lvl
			for d := 0; d < 60; d += 7 {
				s.LevelStartDate = daysAgo(d)
				next, _ := e.AdvanceLevelIfEligible(s, testNow)
				assert.GreaterOrEqual(t, next.CurrentLevel, lvl)
				assert.LessOrEqual(t, int(next.CurrentLevel-lvl), 1)
			}
		}
	})
}

func TestEvaluateBadges(t *testing.T) {
	e := newTestEngine()

	s := baseState()
	s.NoContactStartDate = daysAgo(31)
	s.CurrentLevel = model.LevelClarity
	s.PowerActions = []model.PowerActionRecord{{ID: uuid.New(), Type: model.ActionRemovePhotos, Date: testNow}}

	next, effects := e.EvaluateBadges(s, testNow)
	for _, want := range []model.BadgeType{
		model.BadgeStreak1, model.BadgeStreak7, model.BadgeStreak14, model.BadgeStreak30,
		model.BadgePhotosRemoved, model.BadgeReachedDetox, model.BadgeReachedClarity,
	} {
		assert.True(t, next.HasBadge(want), want.String())
	}
	assert.False(t, next.HasBadge(model.BadgeReachedFreedom))
	assert.False(t, next.HasBadge(model.BadgeNumberDeleted))
	assert.Len(t, effects, 7)

	again, effects := e.EvaluateBadges(next, testNow)
	assert.Empty(t, effects)
	assert.Equal(t, next.Badges, again.Badges)
}

// ランダムな操作列に対して不変条件が常に成り立つことを確認する
func TestInvariantsUnderRandomSequences(t *testing.T) {
	e := newTestEngine()
	rng := rand.New(rand.NewSource(42))
	actions := model.AllPowerActions()

	for run := 0; run < 50; run++ {
		s := baseState()
		s.ProgramStartDate = daysAgo(120)
		s.LevelStartDate = daysAgo(120)
		s.NoContactStartDate = daysAgo(120)
		day := daysAgo(120)

		for step := 0; step < 80; step++ {
			day = day.AddDate(0, 0, rng.Intn(3))
			prevLevel := s.CurrentLevel
			switch rng.Intn(5) {
			case 0:
				prevCount, prevMax := s.RelapseCount, s.MaxStreak
				s, _ = e.RecordRelapse(s, day)
				require.Equal(t, prevCount+1, s.RelapseCount)
				require.GreaterOrEqual(t, s.MaxStreak, prevMax)
				require.Equal(t, model.StartOfDay(day), s.NoContactStartDate)
				require.Equal(t, s.NoContactStartDate, s.LevelStartDate)
			case 1, 2:
				s, _ = e.RecordPowerAction(s, actions[rng.Intn(len(actions))], day, "")
			case 3:
				n := len(s.CheckIns)
				exists := s.CheckInIndex(day) >= 0
				s, _ = e.RecordCheckIn(s, rng.Intn(9)-2, rng.Intn(14)-2, "", day)
				if exists {
					require.Len(t, s.CheckIns, n)
				}
			case 4:
				s, _ = e.AdvanceLevelIfEligible(s, day)
				require.LessOrEqual(t, int(s.CurrentLevel-prevLevel), 1)
			}
			if rng.Intn(4) == 0 {
				s, _ = e.EvaluateBadges(s, day)
			}

			assertBonusInvariant(t, s)
			require.True(t, s.CurrentLevel.Valid())

			perType := map[model.PowerActionType]int{}
			for _, pa := range s.PowerActions {
				perType[pa.Type]++
			}
			for typ, n := range perType {
				if !typ.Repeatable() {
					require.Equal(t, 1, n, typ.String())
				}
			}
			badgeTypes := map[model.BadgeType]bool{}
			for _, b := range s.Badges {
				require.False(t, badgeTypes[b.Type], "duplicate badge %s", b.Type)
				badgeTypes[b.Type] = true
			}
			days := map[time.Time]bool{}
			for _, c := range s.CheckIns {
				require.False(t, days[c.Date])
				days[c.Date] = true
			}
		}
	}
}
