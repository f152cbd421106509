package recharge

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
)

// PollPending dispatches a status query for every recharge still waiting
// on upstream settlement.
func (p *Pipeline) PollPending(ctx context.Context) error {
	if err := p.ensureToken(ctx); err != nil {
		log.Warnf("[Poller] No usable token (%v), deferring poll pass by %s", err, p.cfg.RetryCountdown)
		return p.dispatch.PollPass(p.cfg.RetryCountdown)
	}

	recs, err := p.recharges.ListPending()
	if err != nil {
		return fmt.Errorf("list pending recharges: %w", err)
	}

	for _, rec := range recs {
		if err := p.dispatch.PollOne(rec.ID); err != nil {
			log.Errorf("[Poller] Dispatching status check for recharge %d failed: %v", rec.ID, err)
		}
	}

	return nil
}

// PollOne queries upstream for one recharge and writes the settlement
// code straight into the record. Settlement additionally snapshots the
// returned balance and kicks off the recipient notification; a declared
// failure gets its own audit row.
func (p *Pipeline) PollOne(ctx context.Context, id uint) error {
	rec, err := p.recharges.GetByID(id)
	if err != nil {
		return fmt.Errorf("load recharge %d: %w", id, err)
	}

	token, err := p.tokens.Current(ctx)
	if errors.Is(err, ErrNoToken) {
		token, err = p.tokens.Refresh(ctx)
	}
	if err != nil {
		return err
	}

	res, err := p.api.Status(ctx, token.Token, rec.Reference)
	if err != nil {
		return fmt.Errorf("query status for recharge %d: %w", id, err)
	}

	serr := p.cfg.Codes.Classify(res.Status, res.Message)
	if serr != nil && serr.Kind.Recoverable() {
		log.Warnf("[Poller] Token rejected for recharge %d (%s), refreshing and retrying once", id, serr.Kind)
		fresh, rerr := p.tokens.Refresh(ctx)
		if rerr != nil {
			return fmt.Errorf("refresh token for recharge %d: %w", id, rerr)
		}

		res, err = p.api.Status(ctx, fresh.Token, rec.Reference)
		if err != nil {
			return fmt.Errorf("retry status for recharge %d: %w", id, err)
		}
		serr = p.cfg.Codes.Classify(res.Status, res.Message)
		if serr != nil && serr.Kind.Recoverable() {
			return serr
		}
	}
	if serr != nil {
		// Not a precise upstream verdict about the recharge itself, so it
		// lands in the same terminal path as submission errors.
		return p.recordTerminal(rec.ID, serr)
	}

	return p.applySettlement(ctx, rec, res)
}

func (p *Pipeline) applySettlement(ctx context.Context, rec *models.Recharge, res *hotsocket.StatusResult) error {
	// Pass-through of upstream's own result code.
	if err := p.recharges.SetStatus(rec.ID, res.SettlementCode, p.now()); err != nil {
		return fmt.Errorf("update recharge %d status: %w", rec.ID, err)
	}

	switch res.SettlementCode {
	case p.cfg.SettledCode:
		log.Infof("[Poller] Recharge %d settled, running balance %d", rec.ID, res.RunningBalance)
		if err := p.balances.AddSnapshot(res.RunningBalance); err != nil {
			log.Errorf("[Poller] Balance snapshot after recharge %d failed: %v", rec.ID, err)
		}

		if rec.Notification != "" && !rec.NotificationSent {
			if err := p.dispatch.SendSMS(rec.ID); err != nil {
				log.Errorf("[Poller] Dispatching notification for recharge %d failed: %v", rec.ID, err)
			} else if err := p.recharges.MarkNotified(rec.ID); err != nil {
				log.Errorf("[Poller] Marking recharge %d notified failed: %v", rec.ID, err)
			}
		}

	case p.cfg.FailedCode:
		log.Warnf("[Poller] Recharge %d failed upstream: %s", rec.ID, res.Message)
		if err := p.recharges.AddFailed(&models.RechargeFailed{
			RechargeID:     rec.ID,
			RechargeStatus: res.RechargeStatus,
			FailureMessage: res.Message,
		}); err != nil {
			return fmt.Errorf("record failure for recharge %d: %w", rec.ID, err)
		}
	}

	return nil
}
