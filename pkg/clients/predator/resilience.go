package predator

import (
	"time"

	"github.com/Meesho/BharatMLStack/maskfill/pkg/metric"
	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const maxBackoffFactor = 8

// retryable reports whether a failed ModelInfer attempt may be sent again. A done context
// surfaces as Canceled or DeadlineExceeded and is never retried.
func retryable(err error) bool {
	return err != nil && status.Code(err) == codes.Unavailable
}

func buildPolicies(config *Config) []failsafe.Policy[any] {
	policies := make([]failsafe.Policy[any], 0, 2)
	if config.Retry.MaxAttempts > 1 {
		backoff := time.Duration(config.Retry.BackoffMs) * time.Millisecond
		builder := retrypolicy.Builder[any]().
			HandleIf(func(_ any, err error) bool {
				return retryable(err)
			}).
			WithMaxRetries(config.Retry.MaxAttempts - 1).
			ReturnLastFailure()
		if backoff > 0 {
			builder = builder.WithBackoff(backoff, backoff*maxBackoffFactor)
		}
		policies = append(policies, builder.Build())
	}
	if config.CircuitBreaker.Enabled {
		policies = append(policies, newCircuitBreaker(&config.CircuitBreaker))
	}
	return policies
}

func newCircuitBreaker(config *CircuitBreakerConfig) circuitbreaker.CircuitBreaker[any] {
	name := config.Name
	if len(name) == 0 {
		name = predatorServiceName
	}
	builder := circuitbreaker.Builder[any]().
		WithFailureRateThreshold(uint(config.FailureRateThreshold), uint(config.FailureExecutionThreshold),
			time.Duration(config.FailureThresholdingPeriodMs)*time.Millisecond).
		WithDelay(time.Duration(config.DelayMs) * time.Millisecond).
		OnStateChanged(func(event circuitbreaker.StateChangedEvent) {
			log.Warn().Msgf("Circuit Breaker '%s' changed state from %s to %s", name, event.OldState, event.NewState)
			metric.Incr(metric.CircuitBreakerStateChange, metric.BuildTag(
				metric.NewTag(metric.TagCircuitBreakerName, name),
				metric.NewTag(metric.TagCircuitBreakerFromState, event.OldState.String()),
				metric.NewTag(metric.TagCircuitBreakerToState, event.NewState.String()),
			))
		})
	if config.SuccessRatioThreshold > 0 && config.SuccessThresholdingCapacity > 0 {
		builder = builder.WithSuccessThresholdRatio(uint(config.SuccessRatioThreshold), uint(config.SuccessThresholdingCapacity))
	}
	return builder.Build()
}
