// internal/model/power_action.go
package model

import "strings"

// PowerActionType は回復を加速させるアクションの種類です
type PowerActionType int

const (
	ActionDeleteNumber PowerActionType = iota
	ActionBlockSocial
	ActionRemovePhotos
	ActionUnsentLetter
	ActionReturnBelongings
	ActionJournaling
	ActionExercise
	ActionMeditation
	ActionReachOutFriend
)

type PowerActionInfo struct {
	Name       string
	Title      string
	BonusValue float64 // 獲得できるボーナス日数
	Repeatable bool
}

var powerActionTable = [...]PowerActionInfo{
	ActionDeleteNumber:     {Name: "delete_number", Title: "Delete their number", BonusValue: 1.0},
	ActionBlockSocial:      {Name: "block_social", Title: "Block on social media", BonusValue: 1.0},
	ActionRemovePhotos:     {Name: "remove_photos", Title: "Remove photos", BonusValue: 1.5},
	ActionUnsentLetter:     {Name: "unsent_letter", Title: "Write an unsent letter", BonusValue: 1.0},
	ActionReturnBelongings: {Name: "return_belongings", Title: "Return belongings", BonusValue: 0.5},
	ActionJournaling:       {Name: "journaling", Title: "Journal", BonusValue: 0.5, Repeatable: true},
	ActionExercise:         {Name: "exercise", Title: "Exercise", BonusValue: 0.5, Repeatable: true},
	ActionMeditation:       {Name: "meditation", Title: "Meditate", BonusValue: 0.25, Repeatable: true},
	ActionReachOutFriend:   {Name: "reach_out_friend", Title: "Reach out to a friend", BonusValue: 0.5, Repeatable: true},
}

func AllPowerActions() []PowerActionType {
	types := make([]PowerActionType, len(powerActionTable))
	for i := range powerActionTable {
		types[i] = PowerActionType(i)
	}
	return types
}

func (t PowerActionType) Valid() bool {
	return t >= 0 && int(t) < len(powerActionTable)
}

func (t PowerActionType) Info() PowerActionInfo {
	if !t.Valid() {
		return PowerActionInfo{}
	}
	return powerActionTable[t]
}

func (t PowerActionType) String() string {
	return t.Info().Name
}

func (t PowerActionType) BonusValue() float64 {
	return t.Info().BonusValue
}

func (t PowerActionType) Repeatable() bool {
	return t.Info().Repeatable
}

func ParsePowerAction(raw string) (PowerActionType, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for i, info := range powerActionTable {
		if info.Name == name {
			return PowerActionType(i), true
		}
	}
	return 0, false
}
