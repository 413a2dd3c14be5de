package abuse

import (
	"fmt"
	"sync"
	"time"

	"github.com/RussellLuo/slidingwindow"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"mydiary/internal/common"
)

// Cache capacities. The cooldown cache must be large enough that entries
// age out by TTL, not by eviction, or the cooldown guarantee weakens.
const (
	cooldownCacheSize = 100_000
	dailyCacheSize    = 10_000
)

// RateLimitError reports a rejected submission together with how long the
// submitter should wait. It matches common.ErrRateLimited via errors.Is.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Is(target error) bool {
	return target == common.ErrRateLimited
}

// Limiter enforces two submission limits:
//
//   - a per-(submitter, owner) cooldown: no two accepted submissions from
//     the same submitter to the same owner within the cooldown window;
//   - a per-submitter sliding-window daily cap across all owners.
//
// Allow reserves the slot on success, so two concurrent calls for the same
// pair cannot both pass.
type Limiter struct {
	mu       sync.Mutex
	cooldown time.Duration
	recent   *expirable.LRU[string, time.Time]
	daily    *lru.Cache[string, *slidingwindow.Limiter]
	dailyCap int64

	now func() time.Time
}

// NewLimiter builds a Limiter. A dailyCap of 0 disables the daily cap.
func NewLimiter(cooldown time.Duration, dailyCap int64) *Limiter {
	daily, _ := lru.New[string, *slidingwindow.Limiter](dailyCacheSize)
	return &Limiter{
		cooldown: cooldown,
		recent:   expirable.NewLRU[string, time.Time](cooldownCacheSize, nil, cooldown),
		daily:    daily,
		dailyCap: dailyCap,
		now:      time.Now,
	}
}

// Allow checks both limits for the given submitter hash and owner and, if
// the submission may proceed, records it. Returns *RateLimitError on
// rejection.
func (l *Limiter) Allow(submitter, ownerID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	key := submitter + "|" + ownerID

	if last, ok := l.recent.Get(key); ok {
		if elapsed := now.Sub(last); elapsed < l.cooldown {
			return &RateLimitError{RetryAfter: l.cooldown - elapsed}
		}
	}

	if l.dailyCap > 0 && !l.dayWindow(submitter).Allow() {
		return &RateLimitError{RetryAfter: 24 * time.Hour}
	}

	l.recent.Add(key, now)
	return nil
}

func (l *Limiter) dayWindow(submitter string) *slidingwindow.Limiter {
	if lim, ok := l.daily.Get(submitter); ok {
		return lim
	}
	lim, _ := slidingwindow.NewLimiter(24*time.Hour, l.dailyCap, func() (slidingwindow.Window, slidingwindow.StopFunc) {
		return slidingwindow.NewLocalWindow()
	})
	l.daily.Add(submitter, lim)
	return lim
}
