// Package domain defines scan findings, object references and run reports.
package domain

import "time"

// InfoType names a category of sensitive data a detector recognises.
type InfoType string

const (
	InfoTypeEmailAddress InfoType = "EMAIL_ADDRESS"
	InfoTypePhoneNumber  InfoType = "PHONE_NUMBER"
	InfoTypeCreditCard   InfoType = "CREDIT_CARD_NUMBER"
	InfoTypeUSSSN        InfoType = "US_SOCIAL_SECURITY_NUMBER"
)

// Finding is one detected value inside one object.
type Finding struct {
	InfoType InfoType
	Value    string
	Source   string
	Object   string
}

// ObjectRef identifies an object inside a source.
type ObjectRef struct {
	Key  string
	Size int64
}

// Report summarises one scan run.
type Report struct {
	StartedAt  time.Time
	Duration   time.Duration
	Sources    int
	Objects    int
	Findings   int
	Tokenized  int
	Duplicates int
	Failed     int
	// ByInfoType counts findings per detector.
	ByInfoType map[InfoType]int
}

// Status is the in-process view of the scanner.
type Status struct {
	Running       bool
	TotalScans    int64
	TotalFindings int64
	LastRunAt     *time.Time
	LastError     string
}
