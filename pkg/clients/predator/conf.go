package predator

import "github.com/rs/zerolog/log"

type Config struct {
	Host        string
	Port        string
	PlainText   bool
	CallerId    string
	CallerToken string

	// DeadLine is the timeout of each attempt in milliseconds, retries get a fresh one
	DeadLine int

	// RawInputs sends tensors through raw_input_contents instead of typed contents
	RawInputs bool

	Retry          RetryConfig
	CircuitBreaker CircuitBreakerConfig
}

type RetryConfig struct {
	MaxAttempts int
	BackoffMs   int
}

type CircuitBreakerConfig struct {
	Enabled                     bool
	Name                        string
	FailureRateThreshold        int
	FailureExecutionThreshold   int
	FailureThresholdingPeriodMs int
	SuccessRatioThreshold       int
	SuccessThresholdingCapacity int
	DelayMs                     int
}

func validateConfig(config *Config) {
	if config == nil {
		log.Panic().Msg("Configuration is nil. Please provide a valid config.")
		return
	}
	if len(config.Host) == 0 {
		log.Panic().Msg("Configuration error: Host is empty. Please provide a valid host.")
	}
	if len(config.Port) == 0 {
		log.Panic().Msg("Configuration error: Port is empty. Please provide a valid port.")
	}
	if config.DeadLine <= 0 {
		log.Panic().Msgf("Configuration error: deadline %dms must be positive.", config.DeadLine)
	}
	if config.Retry.MaxAttempts < 1 {
		log.Panic().Msgf("Configuration error: retry max attempts %d must be at least 1.", config.Retry.MaxAttempts)
	}
	if len(config.CallerId) == 0 {
		log.Warn().Msg("Caller ID is empty, predator calls will not carry a caller header")
	}
	cb := config.CircuitBreaker
	if cb.Enabled {
		if cb.FailureRateThreshold <= 0 || cb.FailureRateThreshold > 100 {
			log.Panic().Msgf("Configuration error: circuit breaker failure rate %d must be within (0, 100].", cb.FailureRateThreshold)
		}
		if cb.FailureExecutionThreshold <= 0 || cb.FailureThresholdingPeriodMs <= 0 {
			log.Panic().Msg("Configuration error: circuit breaker execution threshold and period must be positive.")
		}
	}
}
