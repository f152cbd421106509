package recharge

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
)

// CheckBalance queries the upstream running balance, appends a snapshot
// and fans low-balance alerts out to every channel. Channel dispatches
// are independent; a failing channel never blocks the others.
func (p *Pipeline) CheckBalance(ctx context.Context) error {
	token, err := p.tokens.Current(ctx)
	if err != nil {
		// Covers both ErrNoToken and storage errors: one login attempt,
		// then carry on with the fresh token.
		token, err = p.tokens.Refresh(ctx)
		if err != nil {
			return err
		}
	}

	res, err := p.api.Balance(ctx, token.Token)
	if err != nil {
		return fmt.Errorf("query balance: %w", err)
	}

	serr := p.cfg.Codes.Classify(res.Status, res.Message)
	if serr != nil && serr.Kind.Recoverable() {
		fresh, rerr := p.tokens.Refresh(ctx)
		if rerr != nil {
			return fmt.Errorf("refresh token for balance query: %w", rerr)
		}
		res, err = p.api.Balance(ctx, fresh.Token)
		if err != nil {
			return fmt.Errorf("retry balance query: %w", err)
		}
		serr = p.cfg.Codes.Classify(res.Status, res.Message)
	}
	if serr != nil {
		return fmt.Errorf("balance query rejected: %w", serr)
	}

	if err := p.balances.AddSnapshot(res.RunningBalance); err != nil {
		return fmt.Errorf("store balance snapshot: %w", err)
	}
	log.Infof("[Balance] Running balance is %d", res.RunningBalance)

	if res.RunningBalance < p.cfg.LowBalanceThreshold {
		log.Warnf("[Balance] Balance %d below threshold %d, alerting all channels",
			res.RunningBalance, p.cfg.LowBalanceThreshold)
		for _, channel := range AlertChannels {
			if err := p.dispatch.LowBalanceAlert(channel, res.RunningBalance); err != nil {
				log.Errorf("[Balance] Dispatching %s alert failed: %v", channel, err)
			}
		}
	}

	return nil
}
