// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go_nocontact_keep/internal/model"
	"go_nocontact_keep/internal/service"
	"go_nocontact_keep/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// recordingNotifier は受け取った通知を記録します
type recordingNotifier struct {
	streaks []int
	levels  []model.HealingLevel
	err     error
}

func (n *recordingNotifier) StreakMilestone(_ context.Context, days int, _ model.ProgressionState) error {
	if n.err != nil {
		return n.err
	}
	n.streaks = append(n.streaks, days)
	return nil
}

func (n *recordingNotifier) LevelReached(_ context.Context, level model.HealingLevel, _ model.ProgressionState) error {
	if n.err != nil {
		return n.err
	}
	n.levels = append(n.levels, level)
	return nil
}

// stateWithStreak は now 時点で days 日連続の状態を返します
func stateWithStreak(now time.Time, days int, level model.HealingLevel) model.ProgressionState {
	st := model.NewProgressionState(now.AddDate(0, 0, -days))
	st.CurrentLevel = level
	return st
}

func TestScheduler_RunMilestoneCheck(t *testing.T) {
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	steps := []struct {
		name        string
		state       model.ProgressionState
		wantStreaks []int
		wantLevels  []model.HealingLevel
	}{
		{name: "prime at day 3", state: stateWithStreak(now, 3, model.LevelWithdrawal)},
		{name: "still below 7", state: stateWithStreak(now, 6, model.LevelWithdrawal)},
		{name: "reach 7", state: stateWithStreak(now, 7, model.LevelWithdrawal), wantStreaks: []int{7}},
		{name: "no repeat", state: stateWithStreak(now, 8, model.LevelWithdrawal), wantStreaks: []int{7}},
		{name: "level up", state: stateWithStreak(now, 15, model.LevelDetox), wantStreaks: []int{7, 14}, wantLevels: []model.HealingLevel{model.LevelDetox}},
		{name: "relapse resets", state: stateWithStreak(now, 0, model.LevelDetox), wantStreaks: []int{7, 14}, wantLevels: []model.HealingLevel{model.LevelDetox}},
		{name: "day 1 again", state: stateWithStreak(now, 1, model.LevelDetox), wantStreaks: []int{7, 14, 1}, wantLevels: []model.HealingLevel{model.LevelDetox}},
	}

	mockService := mocks.NewMockReconciliationService(t)
	notifier := &recordingNotifier{}
	s := New(mockService, notifier, service.ClockFunc(func() time.Time { return now }), testLogger, Options{})

	for _, step := range steps {
		mockService.On("AdvanceLevel", mock.Anything).Return(step.state, false, nil).Once()
		mockService.On("EvaluateBadges", mock.Anything).Return(step.state, nil).Once()

		s.RunMilestoneCheck(ctx)

		assert.Equal(t, step.wantStreaks, notifier.streaks, step.name)
		assert.Equal(t, step.wantLevels, notifier.levels, step.name)
	}
}

func TestScheduler_RunMilestoneCheck_StorageFailureStillNotifies(t *testing.T) {
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	storageErr := model.NewStorageError(model.ErrSaveFailed, "ReconciliationService.EvaluateBadges", errors.New("disk full"))

	mockService := mocks.NewMockReconciliationService(t)
	notifier := &recordingNotifier{}
	s := New(mockService, notifier, service.ClockFunc(func() time.Time { return now }), testLogger, Options{})

	prime := stateWithStreak(now, 0, model.LevelWithdrawal)
	mockService.On("AdvanceLevel", mock.Anything).Return(prime, false, nil).Once()
	mockService.On("EvaluateBadges", mock.Anything).Return(prime, nil).Once()
	s.RunMilestoneCheck(ctx)

	st := stateWithStreak(now, 1, model.LevelWithdrawal)
	mockService.On("AdvanceLevel", mock.Anything).Return(st, false, storageErr).Once()
	mockService.On("EvaluateBadges", mock.Anything).Return(st, storageErr).Once()
	s.RunMilestoneCheck(ctx)

	assert.Equal(t, []int{1}, notifier.streaks)
}

func TestScheduler_RunMilestoneCheck_NotifierErrorRetries(t *testing.T) {
	now := time.Date(2025, 3, 20, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()

	mockService := mocks.NewMockReconciliationService(t)
	notifier := &recordingNotifier{}
	s := New(mockService, notifier, service.ClockFunc(func() time.Time { return now }), testLogger, Options{})

	prime := stateWithStreak(now, 0, model.LevelWithdrawal)
	st := stateWithStreak(now, 1, model.LevelWithdrawal)
	mockService.On("AdvanceLevel", mock.Anything).Return(prime, false, nil).Once()
	mockService.On("EvaluateBadges", mock.Anything).Return(prime, nil).Once()
	mockService.On("AdvanceLevel", mock.Anything).Return(st, false, nil).Twice()
	mockService.On("EvaluateBadges", mock.Anything).Return(st, nil).Twice()

	s.RunMilestoneCheck(ctx)

	notifier.err = errors.New("push gateway down")
	s.RunMilestoneCheck(ctx)
	assert.Empty(t, notifier.streaks)

	// 失敗した通知は次回に再送される
	notifier.err = nil
	s.RunMilestoneCheck(ctx)
	assert.Equal(t, []int{1}, notifier.streaks)
}

func TestScheduler_RunIntegrityCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		mockService.On("IntegrityCheck", mock.Anything).Return(&service.IntegrityReport{RowsRestored: 2}, nil).Once()
		New(mockService, &recordingNotifier{}, nil, testLogger, Options{}).RunIntegrityCheck(ctx)
	})

	t.Run("Failure is logged", func(t *testing.T) {
		mockService := mocks.NewMockReconciliationService(t)
		mockService.On("IntegrityCheck", mock.Anything).
			Return(nil, model.NewStorageError(model.ErrFetchFailed, "ReconciliationService.IntegrityCheck", errors.New("timeout"))).Once()
		New(mockService, &recordingNotifier{}, nil, testLogger, Options{}).RunIntegrityCheck(ctx)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	mockService := mocks.NewMockReconciliationService(t)
	mockService.On("IntegrityCheck", mock.Anything).Return(&service.IntegrityReport{}, nil).Maybe()

	s := New(mockService, NewLogNotifier(testLogger), nil, testLogger, Options{IntegrityInterval: time.Hour})
	require.NoError(t, s.Start())
	s.Stop()
}
