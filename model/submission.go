package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type SubmissionStatus string

const (
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusCancelled SubmissionStatus = "cancelled"
)

// SubmissionData is the flat field_key -> value map. Some upstream endpoints
// send it JSON-encoded inside a string.
type SubmissionData map[string]any

func (d *SubmissionData) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*d = SubmissionData{}
		return nil
	}

	if b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		if raw == "" {
			*d = SubmissionData{}
			return nil
		}
		b = []byte(raw)
	}

	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("parse submission data: %w", err)
	}
	*d = m
	return nil
}

type GuestSummary struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type FormSubmission struct {
	ID              ID               `json:"id"`
	FormID          ID               `json:"form_id"`
	SubmissionData  SubmissionData   `json:"submission_data"`
	GuestID         ID               `json:"guest_id,omitempty"`
	Status          SubmissionStatus `json:"status"`
	ParticipantType string           `json:"participant_type,omitempty"`
	Guest           *GuestSummary    `json:"guest,omitempty"`
	CreatedAt       string           `json:"created_at,omitempty"`
}

type SubmissionQuery struct {
	ListQuery
	Status          string `json:"status,omitempty"`
	ParticipantType string `json:"participant_type,omitempty"`
}

type OptionCount struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type NumericSummary struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Average float64 `json:"average"`
	Sum     float64 `json:"sum"`
}

type FieldAnalytics struct {
	FieldID   ID              `json:"field_id"`
	FieldKey  string          `json:"field_key"`
	Label     string          `json:"label"`
	FieldType FieldType       `json:"field_type"`
	Chart     string          `json:"chart"`
	Responses int             `json:"responses"`
	Options   []OptionCount   `json:"options,omitempty"`
	Numeric   *NumericSummary `json:"numeric,omitempty"`
	Dates     []DateCount     `json:"dates,omitempty"`
	Samples   []string        `json:"samples,omitempty"`
}

type FormAnalytics struct {
	FormID                   ID                       `json:"form_id"`
	TotalSubmissions         int                      `json:"total_submissions"`
	ByStatus                 map[SubmissionStatus]int `json:"by_status"`
	ByParticipantType        map[string]int           `json:"by_participant_type"`
	CompletionRate           float64                  `json:"completion_rate"`
	Fields                   []FieldAnalytics         `json:"fields"`
	SubmissionsPerDay        []DateCount              `json:"submissions_per_day"`
	LatestSubmissionAt       string                   `json:"latest_submission_at,omitempty"`
	AverageFieldsPerResponse float64                  `json:"average_fields_per_response"`
}
