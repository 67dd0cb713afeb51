// internal/models/symptom.go
package models

import "time"

// StoolType is the Bristol stool scale classification (1-7).
type StoolType int

const (
	StoolSevereConstipation StoolType = 1
	StoolMildConstipation   StoolType = 2
	StoolNormal             StoolType = 3
	StoolOptimal            StoolType = 4
	StoolLackingFiber       StoolType = 5
	StoolMildDiarrhea       StoolType = 6
	StoolSevereDiarrhea     StoolType = 7
)

func (s StoolType) Valid() bool {
	return s >= StoolSevereConstipation && s <= StoolSevereDiarrhea
}

type PainLevel int

const (
	PainNone PainLevel = iota
	PainMild
	PainModerate
	PainSevere
	PainExtreme
)

func (p PainLevel) Valid() bool {
	return p >= PainNone && p <= PainExtreme
}

type UrgencyLevel int

const (
	UrgencyNone UrgencyLevel = iota
	UrgencyMild
	UrgencyModerate
	UrgencyUrgent
)

func (u UrgencyLevel) Valid() bool {
	return u >= UrgencyNone && u <= UrgencyUrgent
}

type Symptom struct {
	ID           string       `json:"id"`
	Timestamp    time.Time    `json:"timestamp"`
	StoolType    StoolType    `json:"stool_type"`
	PainLevel    PainLevel    `json:"pain_level"`
	UrgencyLevel UrgencyLevel `json:"urgency_level"`
	Notes        string       `json:"notes,omitempty"`
	Tags         []string     `json:"tags,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
