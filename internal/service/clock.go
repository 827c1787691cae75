// internal/service/clock.go
package service

import "time"

// Clock は現在時刻の取得元です (テストでは固定時刻を注入)
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock は実時間 (UTC) を返す Clock です
func SystemClock() Clock { return systemClock{} }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
