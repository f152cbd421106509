package jobqueue

import (
	"encoding/json"
	"time"

	"github.com/gopherairtime/gopherairtime/internal/pkg/recharge"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeRunQueries    JobType = "run_queries"
	JobTypeSubmitPass    JobType = "recharge_submit_pass"
	JobTypeSubmitOne     JobType = "recharge_submit"
	JobTypePollPass      JobType = "status_poll_pass"
	JobTypePollOne       JobType = "status_poll"
	JobTypeReconcilePass JobType = "reconcile_errors"
	JobTypeResendPass    JobType = "resend_notifications"
	JobTypeBalanceCheck  JobType = "balance_check"
	JobTypeLowBalance    JobType = "low_balance_alert"
	JobTypeSendSMS       JobType = "send_sms"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// MarkAsProcessing flags the job as picked up by a worker
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted flags the job as successfully finished
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed records the failure message and bumps the retry counter
func (j *Job) MarkAsFailed(msg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = msg
	j.RetryCount++
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying flags the job for re-dispatch
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}

// IsRetryable reports whether the job has retries left
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// RechargeJobPayload carries the record ID for per-recharge jobs. The
// queue only moves IDs; all state lives in the database.
type RechargeJobPayload struct {
	RechargeID uint `json:"recharge_id"`
}

// ToMap converts the payload to a map for storage
func (p RechargeJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"recharge_id": p.RechargeID,
	}
}

// RechargeJobPayloadFromMap creates a payload from a map
func RechargeJobPayloadFromMap(data map[string]interface{}) (*RechargeJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload RechargeJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// AlertJobPayload carries one low-balance alert dispatch.
type AlertJobPayload struct {
	Channel recharge.AlertChannel `json:"channel"`
	Balance int64                 `json:"balance"`
}

// ToMap converts the payload to a map for storage
func (p AlertJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"channel": string(p.Channel),
		"balance": p.Balance,
	}
}

// AlertJobPayloadFromMap creates a payload from a map
func AlertJobPayloadFromMap(data map[string]interface{}) (*AlertJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload AlertJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}
