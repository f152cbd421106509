package recharge

import (
	"context"
	"time"

	"github.com/gopherairtime/gopherairtime/app/models"
	"github.com/gopherairtime/gopherairtime/internal/pkg/hotsocket"
)

// API is the subset of the Hotsocket client the pipeline calls.
type API interface {
	Login(ctx context.Context) (*hotsocket.LoginResult, error)
	Balance(ctx context.Context, token string) (*hotsocket.BalanceResult, error)
	Submit(ctx context.Context, req hotsocket.SubmitRequest) (*hotsocket.SubmitResult, error)
	Status(ctx context.Context, token, reference string) (*hotsocket.StatusResult, error)
}

// AlertChannel names one low-balance notification channel.
type AlertChannel string

const (
	AlertEmail AlertChannel = "email"
	AlertChat  AlertChannel = "chat"
	AlertPush  AlertChannel = "push"
)

// AlertChannels is the fan-out set for low-balance warnings.
var AlertChannels = []AlertChannel{AlertEmail, AlertChat, AlertPush}

// Dispatcher hands work units to the background queue. A zero delay means
// dispatch immediately; a positive delay is a deferred re-dispatch.
type Dispatcher interface {
	SubmitPass(delay time.Duration) error
	PollPass(delay time.Duration) error
	ReconcilePass() error
	ResendPass() error

	SubmitOne(rechargeID uint) error
	PollOne(rechargeID uint) error
	SendSMS(rechargeID uint) error
	LowBalanceAlert(channel AlertChannel, balance int64) error
}

// SMSGateway delivers one recipient notification using the owning
// project's conversation credentials.
type SMSGateway interface {
	Send(ctx context.Context, project models.Project, msisdn, message string) error
}
