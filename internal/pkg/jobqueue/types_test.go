package jobqueue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gopherairtime/gopherairtime/internal/pkg/recharge"
)

func TestJobType(t *testing.T) {
	tests := []struct {
		name     string
		jobType  JobType
		expected string
	}{
		{"Run Queries", JobTypeRunQueries, "run_queries"},
		{"Submit Pass", JobTypeSubmitPass, "recharge_submit_pass"},
		{"Submit One", JobTypeSubmitOne, "recharge_submit"},
		{"Poll Pass", JobTypePollPass, "status_poll_pass"},
		{"Poll One", JobTypePollOne, "status_poll"},
		{"Reconcile Pass", JobTypeReconcilePass, "reconcile_errors"},
		{"Resend Pass", JobTypeResendPass, "resend_notifications"},
		{"Balance Check", JobTypeBalanceCheck, "balance_check"},
		{"Low Balance Alert", JobTypeLowBalance, "low_balance_alert"},
		{"Send SMS", JobTypeSendSMS, "send_sms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.jobType))
		})
	}
}

func TestJobStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   JobStatus
		expected string
	}{
		{"Pending", JobStatusPending, "pending"},
		{"Processing", JobStatusProcessing, "processing"},
		{"Completed", JobStatusCompleted, "completed"},
		{"Failed", JobStatusFailed, "failed"},
		{"Retrying", JobStatusRetrying, "retrying"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.status))
		})
	}
}

func TestJob_StatusTransitions(t *testing.T) {
	job := &Job{
		ID:         "test-job",
		Type:       JobTypeSubmitOne,
		Status:     JobStatusPending,
		MaxRetries: DefaultMaxRetries,
	}

	beforeTime := time.Now()

	job.MarkAsProcessing()
	assert.Equal(t, JobStatusProcessing, job.Status)
	require.NotNil(t, job.ProcessedAt)
	assert.False(t, job.UpdatedAt.Before(beforeTime))

	job.MarkAsCompleted()
	assert.Equal(t, JobStatusCompleted, job.Status)
	require.NotNil(t, job.CompletedAt)
	assert.Empty(t, job.ErrorMsg)

	job.MarkAsFailed("upstream timeout")
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "upstream timeout", job.ErrorMsg)
	assert.Equal(t, 1, job.RetryCount)

	job.MarkAsRetrying()
	assert.Equal(t, JobStatusRetrying, job.Status)
}

func TestJob_IsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		job       *Job
		retryable bool
	}{
		{
			name:      "retries remaining",
			job:       &Job{Status: JobStatusFailed, RetryCount: 1, MaxRetries: 3},
			retryable: true,
		},
		{
			name:      "no retries remaining",
			job:       &Job{Status: JobStatusFailed, RetryCount: 3, MaxRetries: 3},
			retryable: false,
		},
		{
			name:      "zero max retries",
			job:       &Job{Status: JobStatusFailed, RetryCount: 0, MaxRetries: 0},
			retryable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.job.IsRetryable())
		})
	}
}

func TestJob_JSONRoundTrip(t *testing.T) {
	job := &Job{
		ID:      "abc-123",
		Type:    JobTypePollOne,
		Status:  JobStatusPending,
		Payload: RechargeJobPayload{RechargeID: 42}.ToMap(),
	}

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var decoded Job
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, job.ID, decoded.ID)
	assert.Equal(t, job.Type, decoded.Type)

	payload, err := RechargeJobPayloadFromMap(decoded.Payload)
	require.NoError(t, err)
	assert.Equal(t, uint(42), payload.RechargeID)
}

func TestRechargeJobPayload_RoundTrip(t *testing.T) {
	payload := RechargeJobPayload{RechargeID: 7}

	decoded, err := RechargeJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, uint(7), decoded.RechargeID)
}

func TestAlertJobPayload_RoundTrip(t *testing.T) {
	payload := AlertJobPayload{Channel: recharge.AlertChat, Balance: 1250}

	decoded, err := AlertJobPayloadFromMap(payload.ToMap())
	require.NoError(t, err)
	assert.Equal(t, recharge.AlertChat, decoded.Channel)
	assert.Equal(t, int64(1250), decoded.Balance)
}
