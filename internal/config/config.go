package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type TelemetryConfig struct {
	LogLevel       string `yaml:"log_level"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
	PrometheusBind string `yaml:"prometheus_bind"`
}

type HTTPConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type BusConfig struct {
	Embedded       bool     `yaml:"embedded"`
	Port           int      `yaml:"port"`
	StoreDir       string   `yaml:"store_dir"`
	Servers        []string `yaml:"servers"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	Token          string   `yaml:"token"`
	TLSInsecure    bool     `yaml:"tls_insecure"`
	ConnectTimeout int      `yaml:"connect_timeout_ms"`
}

type JobStoreConfig struct {
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
	MaxJobs       int    `yaml:"max_jobs"`
	VacuumOnStart bool   `yaml:"vacuum_on_start"`
}

type ArticleConfig struct {
	UserAgent    string `yaml:"user_agent"`
	TimeoutMS    int    `yaml:"timeout_ms"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
	MinTextChars int    `yaml:"min_text_chars"`
}

type ScriptConfig struct {
	Mode        string  `yaml:"mode"` // mock, openai, exec
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Command     string  `yaml:"command"`
	HostName    string  `yaml:"host_name"`
	GuestName   string  `yaml:"guest_name"`
	Style       string  `yaml:"style"` // conversational, aussie
	TargetTurns int     `yaml:"target_turns"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type TTSConfig struct {
	APIKey          string  `yaml:"api_key"`
	BaseURL         string  `yaml:"base_url"`
	Model           string  `yaml:"model"`
	TimeoutMS       int     `yaml:"timeout_ms"`
	MaxRetries      int     `yaml:"max_retries"`
	Stability       float64 `yaml:"stability"`
	SimilarityBoost float64 `yaml:"similarity_boost"`
	Style           float64 `yaml:"style"`
	UseSpeakerBoost bool    `yaml:"use_speaker_boost"`
}

type EpisodeConfig struct {
	Enabled        bool   `yaml:"enabled"`
	OutputDir      string `yaml:"output_dir"`
	FilenamePrefix string `yaml:"filename_prefix"`
	PauseMS        int    `yaml:"pause_ms"`
	TurnDelayMS    int    `yaml:"turn_delay_ms"`
	PreferWAV      bool   `yaml:"prefer_wav"`
	HostVoice      string `yaml:"host_voice"`
	GuestVoice     string `yaml:"guest_voice"`
}

type Config struct {
	RuntimeName string          `yaml:"runtime_name"`
	Environment string          `yaml:"environment"`
	HTTP        HTTPConfig      `yaml:"http"`
	Telemetry   TelemetryConfig `yaml:"telemetry"`
	Bus         BusConfig       `yaml:"bus"`
	JobStore    JobStoreConfig  `yaml:"job_store"`
	Article     ArticleConfig   `yaml:"article"`
	Script      ScriptConfig    `yaml:"script"`
	TTS         TTSConfig       `yaml:"tts"`
	Episode     EpisodeConfig   `yaml:"episode"`
}

func Default() Config {
	return Config{
		RuntimeName: "podwave-runtime",
		Environment: "development",
		HTTP: HTTPConfig{
			Bind: "0.0.0.0",
			Port: 8080,
		},
		Telemetry: TelemetryConfig{
			LogLevel:       "info",
			OTLPEndpoint:   "",
			OTLPInsecure:   true,
			PrometheusBind: ":9091",
		},
		Bus: BusConfig{
			Embedded:       true,
			Port:           4222,
			StoreDir:       "./data/nats",
			Servers:        []string{"nats://localhost:4222"},
			ConnectTimeout: 2000,
		},
		JobStore: JobStoreConfig{
			Path:          "./data/podwave-jobs.db",
			RetentionDays: 30,
			MaxJobs:       10000,
		},
		Article: ArticleConfig{
			UserAgent:    "Mozilla/5.0 (compatible; podwave/1.0)",
			TimeoutMS:    30000,
			MaxBodyBytes: 8 << 20,
			MinTextChars: 200,
		},
		Script: ScriptConfig{
			Mode:        "mock",
			Model:       "gpt-4o-mini",
			HostName:    "Alex",
			GuestName:   "Sarah",
			Style:       "conversational",
			TargetTurns: 12,
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		TTS: TTSConfig{
			BaseURL:         "https://api.elevenlabs.io/v1",
			Model:           "eleven_multilingual_v2",
			TimeoutMS:       90000,
			MaxRetries:      3,
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0,
			UseSpeakerBoost: true,
		},
		Episode: EpisodeConfig{
			Enabled:        true,
			OutputDir:      "./data/episodes",
			FilenamePrefix: "podcast",
			PauseMS:        300,
			TurnDelayMS:    0,
			PreferWAV:      true,
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, fmt.Errorf("config file not found: %w", err)
			}
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.RuntimeName, "PODWAVE_RUNTIME_NAME")
	overrideString(&cfg.Environment, "PODWAVE_RUNTIME_ENVIRONMENT")
	overrideString(&cfg.HTTP.Bind, "PODWAVE_HTTP_BIND")
	overrideInt(&cfg.HTTP.Port, "PODWAVE_HTTP_PORT")
	overrideString(&cfg.Telemetry.LogLevel, "PODWAVE_TELEMETRY_LOG_LEVEL")
	overrideString(&cfg.Telemetry.OTLPEndpoint, "PODWAVE_TELEMETRY_OTLP_ENDPOINT")
	overrideBool(&cfg.Telemetry.OTLPInsecure, "PODWAVE_TELEMETRY_OTLP_INSECURE")
	overrideString(&cfg.Telemetry.PrometheusBind, "PODWAVE_TELEMETRY_PROMETHEUS_BIND")
	overrideBool(&cfg.Bus.Embedded, "PODWAVE_BUS_EMBEDDED")
	overrideInt(&cfg.Bus.Port, "PODWAVE_BUS_PORT")
	overrideString(&cfg.Bus.StoreDir, "PODWAVE_BUS_STORE_DIR")
	overrideStringSlice(&cfg.Bus.Servers, "PODWAVE_BUS_SERVERS")
	overrideString(&cfg.Bus.Username, "PODWAVE_BUS_USERNAME")
	overrideString(&cfg.Bus.Password, "PODWAVE_BUS_PASSWORD")
	overrideString(&cfg.Bus.Token, "PODWAVE_BUS_TOKEN")
	overrideBool(&cfg.Bus.TLSInsecure, "PODWAVE_BUS_TLS_INSECURE")
	overrideInt(&cfg.Bus.ConnectTimeout, "PODWAVE_BUS_CONNECT_TIMEOUT_MS")
	overrideString(&cfg.JobStore.Path, "PODWAVE_JOB_STORE_PATH")
	overrideInt(&cfg.JobStore.RetentionDays, "PODWAVE_JOB_STORE_RETENTION_DAYS")
	overrideInt(&cfg.JobStore.MaxJobs, "PODWAVE_JOB_STORE_MAX_JOBS")
	overrideBool(&cfg.JobStore.VacuumOnStart, "PODWAVE_JOB_STORE_VACUUM_ON_START")
	overrideString(&cfg.Article.UserAgent, "PODWAVE_ARTICLE_USER_AGENT")
	overrideInt(&cfg.Article.TimeoutMS, "PODWAVE_ARTICLE_TIMEOUT_MS")
	overrideInt64(&cfg.Article.MaxBodyBytes, "PODWAVE_ARTICLE_MAX_BODY_BYTES")
	overrideInt(&cfg.Article.MinTextChars, "PODWAVE_ARTICLE_MIN_TEXT_CHARS")
	overrideString(&cfg.Script.Mode, "PODWAVE_SCRIPT_MODE")
	overrideString(&cfg.Script.APIKey, "OPENAI_API_KEY")
	overrideString(&cfg.Script.APIKey, "PODWAVE_SCRIPT_API_KEY")
	overrideString(&cfg.Script.Model, "PODWAVE_SCRIPT_MODEL")
	overrideString(&cfg.Script.Command, "PODWAVE_SCRIPT_COMMAND")
	overrideString(&cfg.Script.HostName, "PODWAVE_SCRIPT_HOST_NAME")
	overrideString(&cfg.Script.GuestName, "PODWAVE_SCRIPT_GUEST_NAME")
	overrideString(&cfg.Script.Style, "PODWAVE_SCRIPT_STYLE")
	overrideInt(&cfg.Script.TargetTurns, "PODWAVE_SCRIPT_TARGET_TURNS")
	overrideInt(&cfg.Script.MaxTokens, "PODWAVE_SCRIPT_MAX_TOKENS")
	overrideFloat(&cfg.Script.Temperature, "PODWAVE_SCRIPT_TEMPERATURE")
	overrideString(&cfg.TTS.APIKey, "ELEVENLABS_API_KEY")
	overrideString(&cfg.TTS.APIKey, "PODWAVE_TTS_API_KEY")
	overrideString(&cfg.TTS.BaseURL, "PODWAVE_TTS_BASE_URL")
	overrideString(&cfg.TTS.Model, "PODWAVE_TTS_MODEL")
	overrideInt(&cfg.TTS.TimeoutMS, "PODWAVE_TTS_TIMEOUT_MS")
	overrideInt(&cfg.TTS.MaxRetries, "PODWAVE_TTS_MAX_RETRIES")
	overrideFloat(&cfg.TTS.Stability, "PODWAVE_TTS_STABILITY")
	overrideFloat(&cfg.TTS.SimilarityBoost, "PODWAVE_TTS_SIMILARITY_BOOST")
	overrideFloat(&cfg.TTS.Style, "PODWAVE_TTS_STYLE")
	overrideBool(&cfg.TTS.UseSpeakerBoost, "PODWAVE_TTS_USE_SPEAKER_BOOST")
	overrideBool(&cfg.Episode.Enabled, "PODWAVE_EPISODE_ENABLED")
	overrideString(&cfg.Episode.OutputDir, "PODWAVE_EPISODE_OUTPUT_DIR")
	overrideString(&cfg.Episode.FilenamePrefix, "PODWAVE_EPISODE_FILENAME_PREFIX")
	overrideInt(&cfg.Episode.PauseMS, "PODWAVE_EPISODE_PAUSE_MS")
	overrideInt(&cfg.Episode.TurnDelayMS, "PODWAVE_EPISODE_TURN_DELAY_MS")
	overrideBool(&cfg.Episode.PreferWAV, "PODWAVE_EPISODE_PREFER_WAV")
	overrideString(&cfg.Episode.HostVoice, "PODWAVE_EPISODE_HOST_VOICE")
	overrideString(&cfg.Episode.GuestVoice, "PODWAVE_EPISODE_GUEST_VOICE")
}

func overrideString(target *string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(value) != "" {
		*target = value
	}
}

func overrideInt(target *int, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			*target = parsed
		}
	}
}

func overrideInt64(target *int64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			*target = parsed
		}
	}
}

func overrideBool(target *bool, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			*target = parsed
		}
	}
}

func overrideStringSlice(target *[]string, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		parts := strings.Split(value, ",")
		var trimmed []string
		for _, p := range parts {
			if s := strings.TrimSpace(p); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			*target = trimmed
		}
	}
}

func overrideFloat(target *float64, envKey string) {
	if value, ok := os.LookupEnv(envKey); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			*target = parsed
		}
	}
}

func validate(cfg Config) error {
	if cfg.RuntimeName == "" {
		return errors.New("runtime_name must not be empty")
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return errors.New("http.port must be between 1 and 65535")
	}
	if cfg.Bus.Embedded {
		if cfg.Bus.Port <= 0 || cfg.Bus.Port > 65535 {
			return errors.New("bus.port must be between 1 and 65535 when embedded mode is enabled")
		}
	} else {
		if len(cfg.Bus.Servers) == 0 {
			return errors.New("bus.servers must not be empty when embedded mode is disabled")
		}
	}
	if cfg.Telemetry.PrometheusBind == "" {
		return errors.New("telemetry.prometheus_bind must not be empty")
	}
	if cfg.JobStore.Path == "" {
		return errors.New("job_store.path must not be empty")
	}
	if cfg.JobStore.RetentionDays < 0 {
		return errors.New("job_store.retention_days must be >= 0")
	}
	if cfg.JobStore.MaxJobs < 0 {
		return errors.New("job_store.max_jobs must be >= 0")
	}
	if cfg.Article.TimeoutMS <= 0 {
		return errors.New("article.timeout_ms must be positive")
	}
	if cfg.Article.MaxBodyBytes <= 0 {
		return errors.New("article.max_body_bytes must be positive")
	}
	switch cfg.Script.Mode {
	case "mock", "openai", "exec":
	default:
		return errors.New("script.mode must be one of mock|openai|exec")
	}
	if cfg.Script.Mode == "openai" && cfg.Script.APIKey == "" {
		return errors.New("script.api_key must be set when mode=openai")
	}
	if cfg.Script.Mode == "exec" && cfg.Script.Command == "" {
		return errors.New("script.command must be set when mode=exec")
	}
	if cfg.Script.TargetTurns <= 0 {
		return errors.New("script.target_turns must be positive")
	}
	if cfg.TTS.BaseURL == "" {
		return errors.New("tts.base_url must not be empty")
	}
	if cfg.TTS.TimeoutMS <= 0 {
		return errors.New("tts.timeout_ms must be positive")
	}
	if cfg.TTS.MaxRetries < 0 {
		return errors.New("tts.max_retries must be >= 0")
	}
	if cfg.Episode.Enabled {
		if cfg.Episode.OutputDir == "" {
			return errors.New("episode.output_dir must not be empty when the episode service is enabled")
		}
		if cfg.Episode.FilenamePrefix == "" {
			return errors.New("episode.filename_prefix must not be empty")
		}
		if cfg.Episode.PauseMS < 0 {
			return errors.New("episode.pause_ms must be >= 0")
		}
		if cfg.Episode.TurnDelayMS < 0 {
			return errors.New("episode.turn_delay_ms must be >= 0")
		}
	}
	return nil
}
