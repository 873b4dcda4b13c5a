package config

import (
	"strconv"

	"github.com/Meesho/BharatMLStack/maskfill/internal/handler/fillmask"
	"github.com/Meesho/BharatMLStack/maskfill/internal/tokenizer"
	"github.com/Meesho/BharatMLStack/maskfill/pkg/clients/predator"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type ConfigHolder interface {
	GetStaticConfig() interface{}
	GetDynamicConfig() interface{}
}

// InitConfig loads the static config from the environment and panics on invalid values
func InitConfig(configHolder ConfigHolder) {
	viper.AutomaticEnv()
	staticConfig := configHolder.GetStaticConfig()
	cfg, ok := staticConfig.(*Configs)
	if !ok {
		log.Panic().Msg("Failed to cast static config to *Configs")
	}
	bindEnvVars()
	setDefaults()
	if err := viper.Unmarshal(cfg); err != nil {
		log.Panic().Err(err).Msg("Failed to unmarshal config from environment")
	}
	validateConfig(cfg)
}

func bindEnvVars() {
	// App configuration
	viper.BindEnv("app_name", "APP_NAME")
	viper.BindEnv("app_env", "APP_ENV")
	viper.BindEnv("app_log_level", "APP_LOG_LEVEL")
	viper.BindEnv("app_metric_sampling_rate", "APP_METRIC_SAMPLING_RATE")
	viper.BindEnv("app_port", "APP_PORT")
	viper.BindEnv("telegraf_host", "TELEGRAF_HOST")
	viper.BindEnv("telegraf_port", "TELEGRAF_PORT")

	// Predator configuration
	viper.BindEnv("predator_host", "PREDATOR_HOST")
	viper.BindEnv("predator_port", "PREDATOR_PORT")
	viper.BindEnv("predator_plain_text", "PREDATOR_PLAIN_TEXT")
	viper.BindEnv("predator_caller_id", "PREDATOR_CALLER_ID")
	viper.BindEnv("predator_caller_token", "PREDATOR_CALLER_TOKEN")
	viper.BindEnv("predator_deadline_ms", "PREDATOR_DEADLINE_MS")
	viper.BindEnv("predator_model_name", "PREDATOR_MODEL_NAME")
	viper.BindEnv("predator_model_version", "PREDATOR_MODEL_VERSION")
	viper.BindEnv("predator_output_name", "PREDATOR_OUTPUT_NAME")
	viper.BindEnv("predator_raw_inputs", "PREDATOR_RAW_INPUTS")
	viper.BindEnv("predator_retry_max_attempts", "PREDATOR_RETRY_MAX_ATTEMPTS")
	viper.BindEnv("predator_retry_backoff_ms", "PREDATOR_RETRY_BACKOFF_MS")
	viper.BindEnv("predator_cb_enabled", "PREDATOR_CB_ENABLED")
	viper.BindEnv("predator_cb_failure_rate_threshold", "PREDATOR_CB_FAILURE_RATE_THRESHOLD")
	viper.BindEnv("predator_cb_failure_execution_threshold", "PREDATOR_CB_FAILURE_EXECUTION_THRESHOLD")
	viper.BindEnv("predator_cb_failure_thresholding_period_ms", "PREDATOR_CB_FAILURE_THRESHOLDING_PERIOD_MS")
	viper.BindEnv("predator_cb_delay_ms", "PREDATOR_CB_DELAY_MS")

	// Tokenizer configuration
	viper.BindEnv("tokenizer_vocab_file", "TOKENIZER_VOCAB_FILE")
	viper.BindEnv("tokenizer_mask_token", "TOKENIZER_MASK_TOKEN")
	viper.BindEnv("tokenizer_unk_token", "TOKENIZER_UNK_TOKEN")
	viper.BindEnv("tokenizer_lower_case", "TOKENIZER_LOWER_CASE")

	// Fill mask configuration
	viper.BindEnv("fillmask_top_k", "FILLMASK_TOP_K")
	viper.BindEnv("fillmask_max_top_k", "FILLMASK_MAX_TOP_K")

	// Cache configuration
	viper.BindEnv("cache_enabled", "CACHE_ENABLED")
	viper.BindEnv("cache_size_in_bytes", "CACHE_SIZE_IN_BYTES")
	viper.BindEnv("cache_ttl_sec", "CACHE_TTL_SEC")
}

func setDefaults() {
	viper.SetDefault("app_env", "local")
	viper.SetDefault("app_log_level", "INFO")
	viper.SetDefault("app_port", 8080)
	viper.SetDefault("app_metric_sampling_rate", 1.0)

	viper.SetDefault("predator_plain_text", true)
	viper.SetDefault("predator_deadline_ms", 1000)
	viper.SetDefault("predator_model_name", "bert-base-uncased")
	viper.SetDefault("predator_model_version", "")
	viper.SetDefault("predator_output_name", "logits")
	viper.SetDefault("predator_retry_max_attempts", 1)
	viper.SetDefault("predator_retry_backoff_ms", 20)
	viper.SetDefault("predator_cb_failure_rate_threshold", 50)
	viper.SetDefault("predator_cb_failure_execution_threshold", 20)
	viper.SetDefault("predator_cb_failure_thresholding_period_ms", 10000)
	viper.SetDefault("predator_cb_delay_ms", 5000)

	viper.SetDefault("tokenizer_mask_token", "[MASK]")
	viper.SetDefault("tokenizer_unk_token", "[UNK]")
	viper.SetDefault("tokenizer_lower_case", true)

	viper.SetDefault("fillmask_top_k", 5)
	viper.SetDefault("fillmask_max_top_k", 50)

	viper.SetDefault("cache_size_in_bytes", 64*1024*1024)
	viper.SetDefault("cache_ttl_sec", 600)
}

func validateConfig(cfg *Configs) {
	if len(cfg.AppName) == 0 {
		log.Panic().Msg("Configuration error: APP_NAME is empty.")
	}
	if cfg.AppPort <= 0 {
		log.Panic().Msgf("Configuration error: APP_PORT %d must be positive.", cfg.AppPort)
	}
	if len(cfg.PredatorHost) == 0 || len(cfg.PredatorPort) == 0 {
		log.Panic().Msg("Configuration error: PREDATOR_HOST and PREDATOR_PORT must be set.")
	}
	if len(cfg.TokenizerVocabFile) == 0 {
		log.Panic().Msg("Configuration error: TOKENIZER_VOCAB_FILE is empty.")
	}
	if cfg.FillMaskTopK < 1 || cfg.FillMaskMaxTopK < cfg.FillMaskTopK {
		log.Panic().Msgf("Configuration error: FILLMASK_TOP_K %d must be within [1, FILLMASK_MAX_TOP_K %d].",
			cfg.FillMaskTopK, cfg.FillMaskMaxTopK)
	}
	if cfg.CacheEnabled && cfg.CacheSizeInBytes <= 0 {
		log.Panic().Msgf("Configuration error: CACHE_SIZE_IN_BYTES %d must be positive.", cfg.CacheSizeInBytes)
	}
}

func (c *Configs) ListenAddr() string {
	return ":" + strconv.Itoa(c.AppPort)
}

func (c *Configs) PredatorConfig() *predator.Config {
	return &predator.Config{
		Host:        c.PredatorHost,
		Port:        c.PredatorPort,
		PlainText:   c.PredatorPlainText,
		CallerId:    c.PredatorCallerId,
		CallerToken: c.PredatorCallerToken,
		DeadLine:    c.PredatorDeadlineMs,
		RawInputs:   c.PredatorRawInputs,
		Retry: predator.RetryConfig{
			MaxAttempts: c.PredatorRetryMaxAttempts,
			BackoffMs:   c.PredatorRetryBackoffMs,
		},
		CircuitBreaker: predator.CircuitBreakerConfig{
			Enabled:                     c.PredatorCBEnabled,
			Name:                        c.PredatorModelName,
			FailureRateThreshold:        c.PredatorCBFailureRateThreshold,
			FailureExecutionThreshold:   c.PredatorCBFailureExecutionThreshold,
			FailureThresholdingPeriodMs: c.PredatorCBFailureThresholdingPeriodMs,
			DelayMs:                     c.PredatorCBDelayMs,
		},
	}
}

func (c *Configs) TokenizerConfig() tokenizer.BertConfig {
	return tokenizer.BertConfig{
		VocabFile: c.TokenizerVocabFile,
		UnkToken:  c.TokenizerUnkToken,
		MaskToken: c.TokenizerMaskToken,
		LowerCase: c.TokenizerLowerCase,
	}
}

func (c *Configs) FillMaskConfig() fillmask.Config {
	return fillmask.Config{
		ModelName:    c.PredatorModelName,
		ModelVersion: c.PredatorModelVersion,
		OutputName:   c.PredatorOutputName,
		MaskToken:    c.TokenizerMaskToken,
		DefaultTopK:  c.FillMaskTopK,
		MaxTopK:      c.FillMaskMaxTopK,
	}
}
