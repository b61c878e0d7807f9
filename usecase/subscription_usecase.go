package usecase

import (
	"context"
	"sync"
	"time"

	"video-bot/domain/repository"
	"video-bot/infrastructure/logger"
)

// ISubscriptionUsecase keeps the PubSubHubbub subscription to the channel
// topic alive: the initial subscribe, the verification challenge handshake and
// the lease renewal.
type ISubscriptionUsecase interface {
	Subscribe(ctx context.Context) error
	// HandleVerificationChallenge returns the body to echo back to the hub
	// and whether the challenge was accepted. The challenge must be returned
	// byte-for-byte unmodified.
	HandleVerificationChallenge(topic, challenge, mode string) (string, bool)
	// ScheduleRenewal arranges a one-shot resubscription once the lease runs
	// out. Cancelling ctx stops the pending renewal.
	ScheduleRenewal(ctx context.Context, leaseSeconds int)
}

type subscriptionUsecase struct {
	hubClient repository.IHub
	topic     string
	// renewMu guards the single pending renewal timer.
	renewMu     sync.Mutex
	cancelRenew context.CancelFunc
}

func NewSubscriptionUsecase(hubClient repository.IHub, topic string) ISubscriptionUsecase {
	return &subscriptionUsecase{hubClient: hubClient, topic: topic}
}

func (u *subscriptionUsecase) Subscribe(ctx context.Context) error {
	logger.GetLogger().WithField("topic", u.topic).Info("Subscribing to Youtube channel")
	if err := u.hubClient.Subscribe(ctx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to subscribe to Youtube channel")
		return err
	}
	logger.GetLogger().Info("Successfully sent subscription request to the hub, now waiting for verification")
	return nil
}

func (u *subscriptionUsecase) HandleVerificationChallenge(topic, challenge, mode string) (string, bool) {
	if mode != "subscribe" || challenge == "" || topic != u.topic {
		return "", false
	}
	logger.GetLogger().Info("Hub verification request received, now successfully subscribed to the Youtube channel")
	return challenge, true
}

func (u *subscriptionUsecase) ScheduleRenewal(ctx context.Context, leaseSeconds int) {
	if leaseSeconds <= 0 {
		return
	}

	u.renewMu.Lock()
	if u.cancelRenew != nil {
		u.cancelRenew()
	}
	renewCtx, cancel := context.WithCancel(ctx)
	u.cancelRenew = cancel
	u.renewMu.Unlock()

	// Renew a minute early so the subscription never lapses between the lease
	// running out and the resubscription round trip.
	delay := time.Duration(leaseSeconds) * time.Second
	if delay > time.Minute {
		delay -= time.Minute
	}

	logger.GetLogger().WithField("leaseSeconds", leaseSeconds).Info("Scheduling resubscription before the lease expires")
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-renewCtx.Done():
			return
		case <-timer.C:
		}
		logger.GetLogger().Info("Resubscribing to the hub")
		if err := u.hubClient.Subscribe(renewCtx); err != nil {
			// A lapsed subscription shows up as an absence of pushes; it is
			// logged here and left for the operator.
			logger.GetLogger().WithField("error", err).Error("Resubscription failed, the subscription will lapse")
		}
	}()
}
