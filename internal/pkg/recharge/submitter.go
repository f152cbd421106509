package recharge

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
	"github.com/gopherairtime/gopherairtime/internal/pkg/network"
)

// SubmitPending selects every unsubmitted recharge and dispatches a
// per-record submission job. Over-limit records are collected during the
// main loop and only failed afterwards, so one rejected record never
// blocks the rest of the batch.
func (p *Pipeline) SubmitPending(ctx context.Context) error {
	if err := p.ensureToken(ctx); err != nil {
		log.Warnf("[Submitter] No usable token (%v), deferring submit pass by %s", err, p.cfg.RetryCountdown)
		return p.dispatch.SubmitPass(p.cfg.RetryCountdown)
	}

	recs, err := p.recharges.ListUnsubmitted()
	if err != nil {
		return fmt.Errorf("list unsubmitted recharges: %w", err)
	}

	var overLimit []models.Recharge
	for _, rec := range recs {
		if rec.Denomination > rec.Project.RechargeLimit {
			log.Errorf("[Submitter] Recharge limit exceeded for %s (recharge %d, denomination %d, limit %d)",
				rec.MSISDN, rec.ID, rec.Denomination, rec.Project.RechargeLimit)
			overLimit = append(overLimit, rec)
			continue
		}

		// The Submitting marker is committed before any network work so a
		// concurrent pass cannot pick the same record up again.
		claimed, err := p.recharges.ClaimForSubmission(rec.ID)
		if err != nil {
			log.Errorf("[Submitter] Claiming recharge %d failed: %v", rec.ID, err)
			continue
		}
		if !claimed {
			continue
		}

		if err := p.dispatch.SubmitOne(rec.ID); err != nil {
			log.Errorf("[Submitter] Dispatching recharge %d failed: %v", rec.ID, err)
			if rerr := p.recharges.ResetSubmitting(rec.ID); rerr != nil {
				log.Errorf("[Submitter] Releasing claim on recharge %d failed: %v", rec.ID, rerr)
			}
		}
	}

	for _, rec := range overLimit {
		if err := p.failLimitExceeded(rec.ID); err != nil {
			log.Errorf("[Submitter] Recording limit error for recharge %d failed: %v", rec.ID, err)
		}
	}

	return nil
}

// SubmitOne performs the upstream recharge call for a claimed record.
// A recoverable token error triggers one refresh and one retry; returning
// a non-nil error leaves the retry to the queue's bounded backoff.
func (p *Pipeline) SubmitOne(ctx context.Context, id uint) error {
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

	req := hotsocket.SubmitRequest{
		Token:        token.Token,
		MSISDN:       rec.MSISDN,
		ProductCode:  rec.ProductCode,
		Denomination: rec.Denomination,
		Reference:    rec.Reference,
	}
	// An unmapped prefix goes upstream with an empty network code and
	// comes back as a bad-network-code terminal error.
	req.NetworkCode, _ = network.Resolve(rec.MSISDN)

	res, err := p.api.Submit(ctx, req)
	if err != nil {
		return fmt.Errorf("submit recharge %d: %w", id, err)
	}

	serr := p.cfg.Codes.Classify(res.Status, res.Message)
	if serr == nil {
		return p.completeSubmission(rec.ID, res)
	}

	if serr.Kind.Recoverable() {
		log.Warnf("[Submitter] Token rejected for recharge %d (%s), refreshing and retrying once", id, serr.Kind)
		fresh, rerr := p.tokens.Refresh(ctx)
		if rerr != nil {
			return fmt.Errorf("refresh token for recharge %d: %w", id, rerr)
		}

		req.Token = fresh.Token
		res, err = p.api.Submit(ctx, req)
		if err != nil {
			return fmt.Errorf("retry recharge %d: %w", id, err)
		}

		serr = p.cfg.Codes.Classify(res.Status, res.Message)
		if serr == nil {
			return p.completeSubmission(rec.ID, res)
		}
		if serr.Kind.Recoverable() {
			// Fresh token rejected again; let the queue re-dispatch.
			return serr
		}
	}

	return p.recordTerminal(rec.ID, serr)
}

func (p *Pipeline) completeSubmission(id uint, res *hotsocket.SubmitResult) error {
	if err := p.recharges.SetSubmitted(id, res.HotsocketRef, models.StatusPending, p.now()); err != nil {
		return fmt.Errorf("mark recharge %d pending: %w", id, err)
	}
	log.Infof("[Submitter] Recharge %d submitted, hotsocket ref %s", id, res.HotsocketRef)
	return nil
}

// recordTerminal writes one error-log row and parks the record in the
// pre-submission error state. Tries counts the error rows for this record
// so repeated attempts stay attributable.
func (p *Pipeline) recordTerminal(id uint, serr *hotsocket.StatusError) error {
	prior, err := p.recharges.CountErrors(id)
	if err != nil {
		return fmt.Errorf("count errors for recharge %d: %w", id, err)
	}

	now := p.now()
	if err := p.recharges.AddError(&models.RechargeError{
		ErrorCode:     serr.Code,
		ErrorMessage:  serr.Message,
		RechargeID:    id,
		LastAttemptAt: now,
		Tries:         int(prior) + 1,
	}); err != nil {
		return fmt.Errorf("log error for recharge %d: %w", id, err)
	}

	if err := p.recharges.SetStatus(id, models.StatusPreSubmitError, now); err != nil {
		return fmt.Errorf("mark recharge %d errored: %w", id, err)
	}

	log.Errorf("[Submitter] Recharge %d failed terminally: %s", id, serr)
	return nil
}

// failLimitExceeded parks an over-limit record. The guarded transition
// runs first so overlapping passes write the error row at most once.
func (p *Pipeline) failLimitExceeded(id uint) error {
	now := p.now()
	claimed, err := p.recharges.ClaimLimitExceeded(id, now)
	if err != nil {
		return err
	}
	if !claimed {
		return nil
	}

	prior, err := p.recharges.CountErrors(id)
	if err != nil {
		return err
	}

	return p.recharges.AddError(&models.RechargeError{
		ErrorCode:     p.cfg.LimitExceededCode,
		ErrorMessage:  p.cfg.LimitExceededMessage,
		RechargeID:    id,
		LastAttemptAt: now,
		Tries:         int(prior) + 1,
	})
}

// ensureToken makes sure a token row exists, logging in when the store is
// empty. Upstream rejection of a stale token is handled per call instead.
func (p *Pipeline) ensureToken(ctx context.Context) error {
	_, err := p.tokens.Current(ctx)
	if errors.Is(err, ErrNoToken) {
		_, err = p.tokens.Refresh(ctx)
	}
	return err
}

// RecoverStuck returns recharges stranded in Submitting (a crash between
// the claim and the upstream call) to the unsubmitted pool. If the original
// call did reach Hotsocket, the re-submission fails terminally as a
// duplicate reference and lands in the error log instead of vanishing.
func (p *Pipeline) RecoverStuck(ctx context.Context) error {
	stuck, err := p.recharges.ListStuckSubmitting(p.now().Add(-p.cfg.StuckAge))
	if err != nil {
		return fmt.Errorf("list stuck recharges: %w", err)
	}

	for _, rec := range stuck {
		log.Warnf("[Submitter] Recovering recharge %d stuck in submitting since %s", rec.ID, rec.UpdatedAt)
		if err := p.recharges.ResetSubmitting(rec.ID); err != nil {
			log.Errorf("[Submitter] Resetting recharge %d failed: %v", rec.ID, err)
		}
	}

	return nil
}
