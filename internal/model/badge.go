// internal/model/badge.go
package model

import "strings"

// BadgeType はバッジの種類です。1 種類につき 1 個までしか獲得できません
type BadgeType int

const (
	BadgeStreak1 BadgeType = iota
	BadgeStreak7
	BadgeStreak14
	BadgeStreak30
	BadgeNumberDeleted
	BadgeSocialBlocked
	BadgePhotosRemoved
	BadgeLetterWritten
	BadgeReachedDetox
	BadgeReachedClarity
	BadgeReachedFreedom
)

// BadgeInfo describes the predicate behind a badge. Exactly one of
// StreakDays, Action or Level is meaningful, selected by Kind.
type BadgeInfo struct {
	Name       string
	Title      string
	Kind       BadgeKind
	StreakDays int
	Action     PowerActionType
	Level      HealingLevel
}

type BadgeKind int

const (
	BadgeKindStreak BadgeKind = iota
	BadgeKindAction
	BadgeKindLevel
)

var badgeTable = [...]BadgeInfo{
	BadgeStreak1:        {Name: "streak_1", Title: "First day", Kind: BadgeKindStreak, StreakDays: 1},
	BadgeStreak7:        {Name: "streak_7", Title: "One week strong", Kind: BadgeKindStreak, StreakDays: 7},
	BadgeStreak14:       {Name: "streak_14", Title: "Two weeks", Kind: BadgeKindStreak, StreakDays: 14},
	BadgeStreak30:       {Name: "streak_30", Title: "A month of no contact", Kind: BadgeKindStreak, StreakDays: 30},
	BadgeNumberDeleted:  {Name: "number_deleted", Title: "Number deleted", Kind: BadgeKindAction, Action: ActionDeleteNumber},
	BadgeSocialBlocked:  {Name: "social_blocked", Title: "Socials blocked", Kind: BadgeKindAction, Action: ActionBlockSocial},
	BadgePhotosRemoved:  {Name: "photos_removed", Title: "Photos removed", Kind: BadgeKindAction, Action: ActionRemovePhotos},
	BadgeLetterWritten:  {Name: "letter_written", Title: "Letter written", Kind: BadgeKindAction, Action: ActionUnsentLetter},
	BadgeReachedDetox:   {Name: "reached_detox", Title: "Reached Detox", Kind: BadgeKindLevel, Level: LevelDetox},
	BadgeReachedClarity: {Name: "reached_clarity", Title: "Reached Clarity", Kind: BadgeKindLevel, Level: LevelClarity},
	BadgeReachedFreedom: {Name: "reached_freedom", Title: "Reached Freedom", Kind: BadgeKindLevel, Level: LevelFreedom},
}

func AllBadges() []BadgeType {
	types := make([]BadgeType, len(badgeTable))
	for i := range badgeTable {
		types[i] = BadgeType(i)
	}
	return types
}

func (b BadgeType) Valid() bool {
	return b >= 0 && int(b) < len(badgeTable)
}

func (b BadgeType) Info() BadgeInfo {
	if !b.Valid() {
		return BadgeInfo{}
	}
	return badgeTable[b]
}

func (b BadgeType) String() string {
	return b.Info().Name
}

func ParseBadge(raw string) (BadgeType, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, info := range badgeTable {
		if info.Name == name {
			return BadgeType(i), true
		}
	}
	return 0, false
}
