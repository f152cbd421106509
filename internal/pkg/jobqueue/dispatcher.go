package jobqueue

import (
	"time"

	"github.com/gopherairtime/gopherairtime/internal/pkg/recharge"
)

// QueueDispatcher adapts the job queue to the pipeline's Dispatcher
// interface: every dispatch becomes one queued job.
type QueueDispatcher struct {
	q *Queue
}

// NewQueueDispatcher wraps a queue for use by the pipeline.
func NewQueueDispatcher(q *Queue) *QueueDispatcher {
	return &QueueDispatcher{q: q}
}

func (d *QueueDispatcher) SubmitPass(delay time.Duration) error {
	_, err := d.q.EnqueueJobIn(delay, JobTypeSubmitPass, nil)
	return err
}

func (d *QueueDispatcher) PollPass(delay time.Duration) error {
	_, err := d.q.EnqueueJobIn(delay, JobTypePollPass, nil)
	return err
}

func (d *QueueDispatcher) ReconcilePass() error {
	_, err := d.q.EnqueueJob(JobTypeReconcilePass, nil)
	return err
}

func (d *QueueDispatcher) ResendPass() error {
	_, err := d.q.EnqueueJob(JobTypeResendPass, nil)
	return err
}

func (d *QueueDispatcher) SubmitOne(rechargeID uint) error {
	_, err := d.q.EnqueueJob(JobTypeSubmitOne, RechargeJobPayload{RechargeID: rechargeID}.ToMap())
	return err
}

func (d *QueueDispatcher) PollOne(rechargeID uint) error {
	_, err := d.q.EnqueueJob(JobTypePollOne, RechargeJobPayload{RechargeID: rechargeID}.ToMap())
	return err
}

func (d *QueueDispatcher) SendSMS(rechargeID uint) error {
	_, err := d.q.EnqueueJob(JobTypeSendSMS, RechargeJobPayload{RechargeID: rechargeID}.ToMap())
	return err
}

func (d *QueueDispatcher) LowBalanceAlert(channel recharge.AlertChannel, balance int64) error {
	_, err := d.q.EnqueueJob(JobTypeLowBalance, AlertJobPayload{Channel: channel, Balance: balance}.ToMap())
	return err
}
