package models

import "time"

type NoticeKind string

const (
	NoticeBookingConfirmation NoticeKind = "booking_confirmation"
	NoticeEventUpdate         NoticeKind = "event_update"
)

func (k NoticeKind) Valid() bool {
	return k == NoticeBookingConfirmation || k == NoticeEventUpdate
}

// Notice is the unit of work handed to the delivery layer. SubjectID is a
// booking id for confirmations and an event id for updates.
type Notice struct {
	ID         string     `json:"id"`
	Kind       NoticeKind `json:"kind"`
	SubjectID  string     `json:"subject_id"`
	Attempt    int        `json:"attempt"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
}
