package models

import "time"

// OperationLog is the journal entry written after each completed backend operation.
type OperationLog struct {
	Operation   Operation `bson:"operation" json:"operation"`
	RecordID    string    `bson:"record_id" json:"record_id"`
	Success     bool      `bson:"success" json:"success"`
	StatusCode  int       `bson:"status_code" json:"status_code"`
	Message     string    `bson:"message" json:"message"`
	StartedAt   time.Time `bson:"started_at" json:"started_at"`
	CompletedAt time.Time `bson:"completed_at" json:"completed_at"`
}

// BackendStatus captures the latest result of probing the backend health endpoint.
type BackendStatus struct {
	Healthy   bool      `json:"healthy"`
	Message   string    `json:"message"`
	CheckedAt time.Time `json:"checked_at"`
}
