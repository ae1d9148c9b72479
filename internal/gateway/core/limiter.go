package core

const maxConcurrentAPICalls = 40

// RequestLimiter bounds fan-out against the backing services across
// all concurrently running flows.
var RequestLimiter = make(chan struct{}, maxConcurrentAPICalls)

// RunWithRateLimitedConcurrency executes fn under the shared semaphore
// and guarantees the slot is returned even if fn panics.
func RunWithRateLimitedConcurrency(fn func()) {
	RequestLimiter <- struct{}{}
	defer func() { <-RequestLimiter }()
	fn()
}
