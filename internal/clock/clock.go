package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	// Stop prevents the callback from firing. It returns false when the
	// callback already fired or the timer was stopped before.
	Stop() bool
}

// Clock abstracts time so that timeouts can be driven deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type system struct{}

func (system) Now() time.Time { return Now() }

func (system) AfterFunc(d time.Duration, fn func()) Timer { return time.AfterFunc(d, fn) }

// System returns the wall clock backed by NowFunc and time.AfterFunc.
func System() Clock { return system{} }
