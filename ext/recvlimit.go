package ext

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/ratelimit"
	"golang.org/x/time/rate"

	"github.com/lcx/extdb/config"
)

// recvLimiter throttles host calls before dispatch. Both implementations
// block in Take rather than rejecting, so throttling is invisible on the
// wire. Limits are retuned at runtime through the Main config hook.
type recvLimiter interface {
	Take()
}

// tokenRecvLimiter wraps a token bucket; short bursts pass at full speed and
// the average rate is capped.
type tokenRecvLimiter struct {
	limiter atomic.Pointer[rate.Limiter]
}

func newTokenRecvLimiter(limit, burst int) *tokenRecvLimiter {
	l := &tokenRecvLimiter{}
	l.limiter.Store(rate.NewLimiter(rate.Limit(limit), burst))
	return l
}

func (l *tokenRecvLimiter) Take() {
	_ = l.limiter.Load().Wait(context.Background())
}

// Reload swaps the bucket parameters without dropping in-flight waiters.
func (l *tokenRecvLimiter) Reload(limit, burst int) {
	l.limiter.Store(rate.NewLimiter(rate.Limit(limit), burst))
}

// funnelRecvLimiter wraps a leaky bucket; calls are spaced evenly with no
// burst allowance.
type funnelRecvLimiter struct {
	limiter atomic.Pointer[ratelimit.Limiter]
}

func newFunnelRecvLimiter(limit int) *funnelRecvLimiter {
	l := &funnelRecvLimiter{}
	limiter := ratelimit.New(limit)
	l.limiter.Store(&limiter)
	return l
}

func (l *funnelRecvLimiter) Take() {
	(*l.limiter.Load()).Take()
}

// Reload replaces the bucket with one running at the new rate.
func (l *funnelRecvLimiter) Reload(limit int) {
	limiter := ratelimit.New(limit)
	l.limiter.Store(&limiter)
}

// newRecvLimiter builds the limiter selected by Main.RecvRateLimit and
// Main.RecvRateMode. A zero limit disables throttling.
func newRecvLimiter(main *config.MainCfg) recvLimiter {
	if main.RecvRateLimit <= 0 {
		return nil
	}
	if strings.EqualFold(main.RecvRateMode, "funnel") {
		return newFunnelRecvLimiter(main.RecvRateLimit)
	}
	return newTokenRecvLimiter(main.RecvRateLimit, main.RecvRateLimit)
}

// reloadRecvLimiter pushes new Main rate keys into a live limiter. Switching
// mode or enabling a disabled limiter needs a restart; only the rate is hot.
func reloadRecvLimiter(l recvLimiter, main *config.MainCfg) {
	if main.RecvRateLimit <= 0 {
		return
	}
	switch limiter := l.(type) {
	case *tokenRecvLimiter:
		limiter.Reload(main.RecvRateLimit, main.RecvRateLimit)
	case *funnelRecvLimiter:
		limiter.Reload(main.RecvRateLimit)
	}
}
