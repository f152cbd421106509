package recharge

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
)

// ResendUnnotified sweeps settled recharges whose notification never went
// out and dispatches them again. Idempotency comes from the selection
// predicate: a record marked notified is simply never selected.
func (p *Pipeline) ResendUnnotified(ctx context.Context) error {
	recs, err := p.recharges.ListUnnotifiedSettled()
	if err != nil {
		return fmt.Errorf("list unnotified recharges: %w", err)
	}

	for _, rec := range recs {
		if err := p.dispatch.SendSMS(rec.ID); err != nil {
			log.Errorf("[Resender] Dispatching notification for recharge %d failed: %v", rec.ID, err)
			continue
		}
		if err := p.recharges.MarkNotified(rec.ID); err != nil {
			log.Errorf("[Resender] Marking recharge %d notified failed: %v", rec.ID, err)
		}
	}

	return nil
}

// SendNotification delivers the recipient SMS for one recharge through
// the owning project's conversation.
func (p *Pipeline) SendNotification(ctx context.Context, id uint) error {
	rec, err := p.recharges.GetByID(id)
	if err != nil {
		return fmt.Errorf("load recharge %d: %w", id, err)
	}
	if rec.Notification == "" {
		return nil
	}

	if err := p.sms.Send(ctx, rec.Project, rec.MSISDN, rec.Notification); err != nil {
		return fmt.Errorf("send notification for recharge %d: %w", id, err)
	}

	log.Infof("[Notify] Sent recharge notification to %s (recharge %d)", rec.MSISDN, rec.ID)
	return nil
}

// ReconcileErrors is the error-reconciliation pass. It is dispatched with
// the other passes but does nothing yet.
// TODO: re-drive PreSubmitError records whose error codes have since been
// reclassified as transient.
func (p *Pipeline) ReconcileErrors(ctx context.Context) error {
	log.Debug("[Reconcile] Error reconciliation pass: nothing to do")
	return nil
}

// RunQueries is the top-level fan-out: each pass is dispatched as its own
// isolated unit of work.
func (p *Pipeline) RunQueries(ctx context.Context) error {
	log.Info("[Pipeline] Dispatching pipeline passes")

	if err := p.dispatch.SubmitPass(0); err != nil {
		log.Errorf("[Pipeline] Dispatching submit pass failed: %v", err)
	}
	if err := p.dispatch.PollPass(0); err != nil {
		log.Errorf("[Pipeline] Dispatching poll pass failed: %v", err)
	}
	if err := p.dispatch.ReconcilePass(); err != nil {
		log.Errorf("[Pipeline] Dispatching reconcile pass failed: %v", err)
	}
	if err := p.dispatch.ResendPass(); err != nil {
		log.Errorf("[Pipeline] Dispatching resend pass failed: %v", err)
	}

	return nil
}
