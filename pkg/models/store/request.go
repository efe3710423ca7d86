package store

import "time"

// OptimizationRecord is the persisted shape of a request. Money travels as
// decimal strings so the record round-trips without float drift, and the
// result is kept as an opaque JSON document: the store never needs to look
// inside it.
type OptimizationRecord struct {
	ID              string    `dynamodbav:"id" json:"id"`
	Status          string    `dynamodbav:"status" json:"status"`
	ServiceKindHint string    `dynamodbav:"service_kind_hint" json:"service_kind_hint"`
	ExpectedUsers   string    `dynamodbav:"expected_users" json:"expected_users"`
	Performance     string    `dynamodbav:"performance" json:"performance"`
	Notes           string    `dynamodbav:"notes" json:"notes"`
	Budget          string    `dynamodbav:"budget" json:"budget"`
	Region          string    `dynamodbav:"region" json:"region"`
	CreatedAt       time.Time `dynamodbav:"created_at" json:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at" json:"updated_at"`
	ResultJSON      []byte    `dynamodbav:"result,omitempty" json:"result,omitempty"`
	Error           string    `dynamodbav:"error,omitempty" json:"error,omitempty"`
}
