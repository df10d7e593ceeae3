package service

import (
	"context"
	"time"

	"otprelay/pkg/constants"
	"otprelay/pkg/logger"
	"otprelay/pkg/otp"
	"otprelay/pkg/registry"
)

// OTPService is the producer-facing entry point over the two delivery
// mechanisms: the fair queue for identified workers and the legacy single
// slot for callers without an identity. The two are independent types with
// independent guarantees; this service only fans out to both.
type OTPService struct {
	queue       *otp.Queue
	mailbox     *otp.Mailbox
	registry    *registry.Registry
	waitTimeout time.Duration
}

// NewOTPService creates a new OTP service. A non-positive waitTimeout selects
// the 120 s default, consistent with the portal's own code expiry window.
func NewOTPService(queue *otp.Queue, mailbox *otp.Mailbox, reg *registry.Registry, waitTimeout time.Duration) *OTPService {
	if waitTimeout <= 0 {
		waitTimeout = 120 * time.Second
	}
	return &OTPService{
		queue:       queue,
		mailbox:     mailbox,
		registry:    reg,
		waitTimeout: waitTimeout,
	}
}

// SubmitCode fans a received code out to the fair queue and, for backward
// compatibility, the legacy slot. It returns immediately regardless of
// whether any worker is waiting.
func (s *OTPService) SubmitCode(ctx context.Context, code string) {
	s.queue.Deliver(code)
	s.mailbox.Put(code)

	if head, ok := s.queue.Head(); ok {
		logger.InfoCtx(ctx, "code queued (depth: %d, waiting: %d, next recipient: worker-%d)",
			s.queue.Pending(), s.queue.Waiting(), head)
	} else {
		logger.InfoCtx(ctx, "code queued (depth: %d, no workers waiting)", s.queue.Pending())
	}
}

// RegisterAndWait marks the worker as waiting and blocks until a code is
// routed to it or timeout elapses. A non-positive timeout selects the service
// default. The status update is observational; queue membership alone decides
// who gets the next code.
func (s *OTPService) RegisterAndWait(ctx context.Context, workerID int64, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = s.waitTimeout
	}
	s.registry.SetStatus(workerID, constants.RunStatusWaitingForOTP, "")
	return s.queue.Acquire(ctx, workerID, timeout)
}

// TakeLegacy consumes the legacy slot for callers that never registered a
// worker identity.
func (s *OTPService) TakeLegacy() (string, bool) {
	return s.mailbox.Take()
}

// LegacyStatus returns the legacy slot status without mutating it.
func (s *OTPService) LegacyStatus() otp.Status {
	return s.mailbox.Snapshot()
}

// QueueDepth returns the number of undelivered codes.
func (s *OTPService) QueueDepth() int {
	return s.queue.Pending()
}

// WaitingWorkers returns the number of workers on the wait list.
func (s *OTPService) WaitingWorkers() int {
	return s.queue.Waiting()
}
