package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromRaw(t *testing.T) {
	tests := []struct {
		raw  string
		want HealingLevel
	}{
		{"withdrawal", LevelWithdrawal},
		{"Detox", LevelDetox},
		{" clarity ", LevelClarity},
		{"freedom", LevelFreedom},
		{"1", LevelWithdrawal},
		{"2", LevelDetox},
		{"5", LevelFreedom},
		{"0", LevelWithdrawal},
		{"6", LevelWithdrawal},
		{"", LevelWithdrawal},
		{"enlightened", LevelWithdrawal},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelFromRaw(tt.raw))
		})
	}
}

func TestHealingLevelTable(t *testing.T) {
	assert.Equal(t, 14, LevelWithdrawal.MinDaysRequired())
	assert.Equal(t, 4.0, LevelWithdrawal.MaxBonusDays())
	assert.Equal(t, 0, LevelFreedom.MinDaysRequired())

	next, ok := LevelRebuilding.Next()
	assert.True(t, ok)
	assert.Equal(t, LevelFreedom, next)
	_, ok = LevelFreedom.Next()
	assert.False(t, ok)

	// 範囲外の値は最下位レベルとして扱う
	assert.Equal(t, LevelWithdrawal.Info(), HealingLevel(42).Info())
	assert.False(t, HealingLevel(-1).Valid())
}

func TestParseRoundTrip(t *testing.T) {
	for _, pa := range AllPowerActions() {
		got, ok := ParsePowerAction(pa.String())
		assert.True(t, ok)
		assert.Equal(t, pa, got)
	}
	for _, b := range AllBadges() {
		got, ok := ParseBadge(b.String())
		assert.True(t, ok)
		assert.Equal(t, b, got)
	}
	assert.Len(t, AllBadges(), 11)

	_, ok := ParsePowerAction("skydiving")
	assert.False(t, ok)
}
