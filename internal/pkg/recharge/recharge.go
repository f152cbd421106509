// Package recharge drives airtime recharge fulfilment against the
// Hotsocket API: submitting pending recharges, polling their settlement,
// watching the account balance and pushing notifications. Components
// coordinate exclusively through persisted state; the job queue only
// carries record IDs.
package recharge

import (
	"strconv"
	"time"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/app/repository"
	"github.com/gopherairtime/gopherairtime/internal/pkg/env"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
)

// Config carries the pipeline tunables. Everything here is read from the
// environment so upstream code changes never require a rebuild.
type Config struct {
	Codes hotsocket.Codes

	// Settlement codes passed through by the status poller.
	SettledCode int
	FailedCode  int

	// Internal error written for over-limit recharges.
	LimitExceededCode    string
	LimitExceededMessage string

	LowBalanceThreshold int64
	RetryCountdown      time.Duration
	StuckAge            time.Duration
	TokenDuration       time.Duration
}

// LoadConfig reads the pipeline configuration from the environment.
func LoadConfig() Config {
	return Config{
		Codes:                hotsocket.LoadCodes(),
		SettledCode:          envInt("HS_STATUS_SETTLED", models.StatusSettled),
		FailedCode:           envInt("HS_STATUS_FAILED", models.StatusFailed),
		LimitExceededCode:    env.GetEnv("INTERNAL_LIMIT_REACHED_CODE", "404"),
		LimitExceededMessage: env.GetEnv("INTERNAL_LIMIT_REACHED_MESSAGE", "Recharge limit exceeded for project"),
		LowBalanceThreshold:  envInt64("THRESHOLD_WARNING_LEVEL", 10000),
		RetryCountdown:       time.Duration(envInt("PIPELINE_RETRY_COUNTDOWN_SECONDS", 20)) * time.Second,
		StuckAge:             time.Duration(envInt("PIPELINE_STUCK_AGE_MINUTES", 60)) * time.Minute,
		TokenDuration:        time.Duration(envInt("TOKEN_DURATION_MINUTES", 60)) * time.Minute,
	}
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(env.GetEnv(key, "")); err == nil {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v, err := strconv.ParseInt(env.GetEnv(key, ""), 10, 64); err == nil {
		return v
	}
	return def
}

// Pipeline bundles the fulfilment components behind one set of injected
// dependencies. All blocking work takes a context.
type Pipeline struct {
	cfg       Config
	api       API
	tokens    TokenProvider
	recharges repository.RechargeRepository
	balances  repository.BalanceRepository
	dispatch  Dispatcher
	sms       SMSGateway
	now       func() time.Time
}

// NewPipeline wires the pipeline from its collaborators.
func NewPipeline(cfg Config, api API, tokens TokenProvider, recharges repository.RechargeRepository,
	balances repository.BalanceRepository, dispatch Dispatcher, sms SMSGateway) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		api:       api,
		tokens:    tokens,
		recharges: recharges,
		balances:  balances,
		dispatch:  dispatch,
		sms:       sms,
		now:       time.Now,
	}
}
