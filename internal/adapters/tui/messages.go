package tui

import "time"

// MsgBuildStart is sent when an environment build begins.
type MsgBuildStart struct {
	Name        string
	Fingerprint string
	StartTime   time.Time
}

// MsgBuildPhase is sent when the build advances to a named phase.
type MsgBuildPhase struct {
	Phase string
}

// MsgBuildLog carries raw builder output.
type MsgBuildLog struct {
	Data []byte
}

// MsgBuildComplete is sent when the build finishes.
type MsgBuildComplete struct {
	EndTime time.Time
	Err     error
}
