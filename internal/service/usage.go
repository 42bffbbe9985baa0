package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/telemetry"
)

// UsageRepository defines the repository interface for the consumption ledger.
type UsageRepository interface {
	// ScanCount returns the consumed count for (userID, periodKey). A missing
	// row reads as zero, never as an error.
	ScanCount(ctx context.Context, userID, periodKey string) (int, error)
	// AddConsumption atomically adds amount to the (userID, periodKey) row,
	// creating it when absent.
	AddConsumption(ctx context.Context, userID, periodKey string, amount int) error
}

// storageRetryAttempts bounds retries of upsert-style writes on transient
// storage failures before the error is surfaced to the caller.
const storageRetryAttempts = 3

// lockShards is fixed so the lock table stays bounded regardless of how many
// users churn through the process.
const lockShards = 64

// UsageService meters a per-user monthly consumption ceiling. The admission
// check and the increment happen as two separate calls around the billable
// work, so the ceiling is a soft limit under cross-instance concurrency: a
// user can transiently overshoot by a small margin, and the recorded truth
// converges on the next read. Within one process, per-user striping plus the
// backend's atomic increment keep the count exact.
type UsageService struct {
	repo    UsageRepository
	ceiling int
	locks   [lockShards]sync.Mutex
	now     func() time.Time
}

// NewUsageService creates a UsageService with the deployment-configured
// monthly ceiling.
func NewUsageService(repo UsageRepository, ceiling int) *UsageService {
	return &UsageService{repo: repo, ceiling: ceiling, now: time.Now}
}

// NewUsageServiceWithClock creates a UsageService with a custom clock (for testing).
func NewUsageServiceWithClock(repo UsageRepository, ceiling int, now func() time.Time) *UsageService {
	return &UsageService{repo: repo, ceiling: ceiling, now: now}
}

// Ceiling returns the configured monthly consumption ceiling.
func (s *UsageService) Ceiling() int {
	return s.ceiling
}

// CanConsume reports whether the user may consume amount more units this
// period. Quota exhaustion is a normal outcome, not an error: callers branch
// on the boolean. The check is conservative: a batch of amount units is
// admitted in full or rejected in full.
func (s *UsageService) CanConsume(ctx context.Context, userID string, amount int) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "UsageService.CanConsume", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "admission_check",
	})
	defer span.End()

	if userID == "" {
		return false, domain.ErrMissingUserID
	}
	if amount < 0 {
		return false, domain.ErrNegativeAmount
	}
	if amount == 0 {
		return true, nil
	}
	if amount > s.ceiling {
		return false, nil
	}

	consumed, err := s.repo.ScanCount(ctx, userID, domain.PeriodKey(s.now()))
	if err != nil {
		span.SetError(err)
		return false, err
	}
	// Subtraction rather than consumed+amount, which can wrap for huge amounts.
	return amount <= s.ceiling-consumed, nil
}

// RecordConsumption adds amount units to the user's ledger for the period
// that is current now. A request straddling a period boundary lands entirely
// in the period that was current at this call.
func (s *UsageService) RecordConsumption(ctx context.Context, userID string, amount int) error {
	ctx, span := telemetry.StartSpan(ctx, "UsageService.RecordConsumption", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "record_consumption",
	})
	defer span.End()

	if userID == "" {
		return domain.ErrMissingUserID
	}
	if amount < 0 {
		return domain.ErrNegativeAmount
	}
	if amount == 0 {
		return nil
	}
	// A single record can never legitimately exceed the ceiling; refusing it
	// here keeps the stored count from ever wrapping.
	if amount > s.ceiling {
		return domain.ErrAmountTooLarge
	}

	periodKey := domain.PeriodKey(s.now())

	lock := s.lockFor(userID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	for attempt := 0; attempt < storageRetryAttempts; attempt++ {
		err = s.repo.AddConsumption(ctx, userID, periodKey, amount)
		if err == nil {
			return nil
		}
		if !retriableWrite(ctx, err) {
			break
		}
	}
	span.SetError(err)
	return domain.NewDomainErrorWithCause(domain.ErrCodeUnavailable, "record consumption for user "+userID, err)
}

// retriableWrite reports whether a failed ledger write is worth another
// attempt. Cancellation and domain-classified failures are final; anything
// else is assumed to be a transient storage fault, since the repository does
// not expose driver-level error classes.
func retriableWrite(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var derr *domain.DomainError
	return !errors.As(err, &derr)
}

// lockFor maps a user to one of a fixed set of mutex shards, serializing
// writes for the same user within this process.
func (s *UsageService) lockFor(userID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.locks[h.Sum32()%lockShards]
}
