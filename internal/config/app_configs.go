package config

var (
	appConfig AppConfig
)

type AppConfig struct {
	Configs        Configs
	DynamicConfigs DynamicConfigs
}

func (cfg *AppConfig) GetStaticConfig() interface{} {
	return &cfg.Configs
}

func (cfg *AppConfig) GetDynamicConfig() interface{} {
	return &cfg.DynamicConfigs
}

func GetAppConfig() *AppConfig {
	return &appConfig
}

type Configs struct {
	AppName               string  `mapstructure:"app_name"`
	AppEnv                string  `mapstructure:"app_env"`
	AppLogLevel           string  `mapstructure:"app_log_level"`
	AppPort               int     `mapstructure:"app_port"`
	AppMetricSamplingRate float64 `mapstructure:"app_metric_sampling_rate"`
	TelegrafHost          string  `mapstructure:"telegraf_host"`
	TelegrafPort          int     `mapstructure:"telegraf_port"`

	PredatorHost                          string `mapstructure:"predator_host"`
	PredatorPort                          string `mapstructure:"predator_port"`
	PredatorPlainText                     bool   `mapstructure:"predator_plain_text"`
	PredatorCallerId                      string `mapstructure:"predator_caller_id"`
	PredatorCallerToken                   string `mapstructure:"predator_caller_token"`
	PredatorDeadlineMs                    int    `mapstructure:"predator_deadline_ms"`
	PredatorModelName                     string `mapstructure:"predator_model_name"`
	PredatorModelVersion                  string `mapstructure:"predator_model_version"`
	PredatorOutputName                    string `mapstructure:"predator_output_name"`
	PredatorRawInputs                     bool   `mapstructure:"predator_raw_inputs"`
	PredatorRetryMaxAttempts              int    `mapstructure:"predator_retry_max_attempts"`
	PredatorRetryBackoffMs                int    `mapstructure:"predator_retry_backoff_ms"`
	PredatorCBEnabled                     bool   `mapstructure:"predator_cb_enabled"`
	PredatorCBFailureRateThreshold        int    `mapstructure:"predator_cb_failure_rate_threshold"`
	PredatorCBFailureExecutionThreshold   int    `mapstructure:"predator_cb_failure_execution_threshold"`
	PredatorCBFailureThresholdingPeriodMs int    `mapstructure:"predator_cb_failure_thresholding_period_ms"`
	PredatorCBDelayMs                     int    `mapstructure:"predator_cb_delay_ms"`

	TokenizerVocabFile string `mapstructure:"tokenizer_vocab_file"`
	TokenizerMaskToken string `mapstructure:"tokenizer_mask_token"`
	TokenizerUnkToken  string `mapstructure:"tokenizer_unk_token"`
	TokenizerLowerCase bool   `mapstructure:"tokenizer_lower_case"`

	FillMaskTopK    int `mapstructure:"fillmask_top_k"`
	FillMaskMaxTopK int `mapstructure:"fillmask_max_top_k"`

	CacheEnabled     bool `mapstructure:"cache_enabled"`
	CacheSizeInBytes int  `mapstructure:"cache_size_in_bytes"`
	CacheTTLSec      int  `mapstructure:"cache_ttl_sec"`
}

type DynamicConfigs struct {
}
