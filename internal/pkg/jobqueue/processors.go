package jobqueue

import (
	"context"
	"fmt"

	"github.com/gopherairtime/gopherairtime/internal/pkg/notify"
	"github.com/gopherairtime/gopherairtime/internal/pkg/recharge"
)

// runJob routes a dequeued job to the pipeline operation it stands for.
// Pass jobs carry no payload; per-record jobs carry the recharge ID.
func (q *Queue) runJob(ctx context.Context, job *Job) error {
	if q.pipeline == nil {
		return fmt.Errorf("job queue has no pipeline attached")
	}

	switch job.Type {
	case JobTypeRunQueries:
		return q.pipeline.RunQueries(ctx)
	case JobTypeSubmitPass:
		return q.pipeline.SubmitPending(ctx)
	case JobTypePollPass:
		return q.pipeline.PollPending(ctx)
	case JobTypeReconcilePass:
		return q.pipeline.ReconcileErrors(ctx)
	case JobTypeResendPass:
		return q.pipeline.ResendUnnotified(ctx)
	case JobTypeBalanceCheck:
		return q.pipeline.CheckBalance(ctx)

	case JobTypeSubmitOne:
		payload, err := RechargeJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("decode submit payload: %w", err)
		}
		return q.pipeline.SubmitOne(ctx, payload.RechargeID)

	case JobTypePollOne:
		payload, err := RechargeJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("decode poll payload: %w", err)
		}
		return q.pipeline.PollOne(ctx, payload.RechargeID)

	case JobTypeSendSMS:
		payload, err := RechargeJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("decode sms payload: %w", err)
		}
		return q.pipeline.SendNotification(ctx, payload.RechargeID)

	case JobTypeLowBalance:
		payload, err := AlertJobPayloadFromMap(job.Payload)
		if err != nil {
			return fmt.Errorf("decode alert payload: %w", err)
		}
		return processLowBalanceAlert(ctx, payload)

	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// processLowBalanceAlert delivers one channel's low-balance warning. Each
// channel runs as its own job so a failing channel only retries itself.
func processLowBalanceAlert(ctx context.Context, payload *AlertJobPayload) error {
	switch payload.Channel {
	case recharge.AlertEmail:
		return notify.SendThresholdEmail(payload.Balance)
	case recharge.AlertChat:
		return notify.NewChatNotifierFromEnv(nil).WarnLowBalance(ctx, payload.Balance)
	case recharge.AlertPush:
		return notify.NewPushNotifierFromEnv(nil).WarnLowBalance(ctx, payload.Balance)
	default:
		return fmt.Errorf("unknown alert channel: %s", payload.Channel)
	}
}
