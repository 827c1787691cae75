// internal/model/level.go
package model

import (
	"strconv"
	"strings"
)

// HealingLevel は回復プログラムの段階 (低い順) を表します
type HealingLevel int

const (
	LevelWithdrawal HealingLevel = iota // 最下位
	LevelDetox
	LevelClarity
	LevelRebuilding
	LevelFreedom // 最上位 (終端)
)

// LevelInfo はレベルごとの固定パラメータです
type LevelInfo struct {
	Name            string
	Title           string
	MinDaysRequired int     // 0 は終端レベル
	MaxBonusDays    float64 // このレベルで保持できるボーナス日数の上限
}

var levelTable = [...]LevelInfo{
	LevelWithdrawal: {Name: "withdrawal", Title: "Withdrawal", MinDaysRequired: 14, MaxBonusDays: 4},
	LevelDetox:      {Name: "detox", Title: "Detox", MinDaysRequired: 21, MaxBonusDays: 6},
	LevelClarity:    {Name: "clarity", Title: "Clarity", MinDaysRequired: 30, MaxBonusDays: 8},
	LevelRebuilding: {Name: "rebuilding", Title: "Rebuilding", MinDaysRequired: 45, MaxBonusDays: 10},
	LevelFreedom:    {Name: "freedom", Title: "Freedom", MinDaysRequired: 0, MaxBonusDays: 0},
}

// AllLevels は全レベルを低い順に返します
func AllLevels() []HealingLevel {
	levels := make([]HealingLevel, len(levelTable))
	for i := range levelTable {
		levels[i] = HealingLevel(i)
	}
	return levels
}

// Valid reports whether l is one of the five ordinals.
func (l HealingLevel) Valid() bool {
	return l >= LevelWithdrawal && l <= LevelFreedom
}

// Info は範囲外の値に対して最下位レベルの情報を返します
func (l HealingLevel) Info() LevelInfo {
	if !l.Valid() {
		return levelTable[LevelWithdrawal]
	}
	return levelTable[l]
}

func (l HealingLevel) String() string {
	return l.Info().Name
}

func (l HealingLevel) MinDaysRequired() int {
	return l.Info().MinDaysRequired
}

func (l HealingLevel) MaxBonusDays() float64 {
	return l.Info().MaxBonusDays
}

// Next returns the following level, or false at the terminal level.
func (l HealingLevel) Next() (HealingLevel, bool) {
	if !l.Valid() || l == LevelFreedom {
		return l, false
	}
	return l + 1, true
}

// ParseLevel は保存済みの名前からレベルを解決します
func ParseLevel(raw string) (HealingLevel, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, info := range levelTable {
		if info.Name == name {
			return HealingLevel(i), true
		}
	}
	return LevelWithdrawal, false
}

// ParseLegacyLevel は旧スキーマの整数表現 ("1".."5", 1 始まり) を解決します
func ParseLegacyLevel(raw string) (HealingLevel, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return LevelWithdrawal, false
	}
	l := HealingLevel(n - 1)
	if !l.Valid() {
		return LevelWithdrawal, false
	}
	return l, true
}

// LevelFromRaw は名前、旧整数表現の順に解決し、どちらでもなければ最下位レベルにフォールバックします
func LevelFromRaw(raw string) HealingLevel {
	if l, ok := ParseLevel(raw); ok {
		return l
	}
	if l, ok := ParseLegacyLevel(raw); ok {
		return l
	}
	return LevelWithdrawal
}
