package dto

import "time"

type RecordInput struct {
	Kind      string
	Detail    string
	Payload   any
	SessionID string
}

type TailInput struct {
	Kind  string
	Limit int
}

type EntryOutput struct {
	ID        int64
	Kind      string
	Detail    string
	Payload   string
	SessionID string
	At        time.Time
}
