package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. MYGOV_HTTP_ADDR.
const EnvPrefix = "MYGOV_"

// Config is the resolved runtime configuration of a MyGov node.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	StoreBackend  string
	StoreDir      string
	StoreInMemory bool

	LogLevel      string
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	// EventsFile receives the json lines event journal, rotated like the log file.
	EventsFile string

	Deployer        string
	Treasury        string
	InitialSupply   uint64
	ProjectFeeTL    uint64
	ProjectFeeMyGov uint64
	SurveyFeeTL     uint64
	SurveyFeeMyGov  uint64
	FaucetAmount    uint64
	OpenTLMint      bool

	MetricsEnabled bool
	MetricsPath    string

	AllowTimeOverride bool
}

// configFile mirrors the YAML schema. Pointers tell "absent" apart from an explicit zero or false.
type configFile struct {
	Service struct {
		HTTPAddr        string `yaml:"http_addr"`
		ShutdownTimeout string `yaml:"shutdown_timeout"`
	} `yaml:"service"`
	Store struct {
		Backend  string `yaml:"backend"`
		Dir      string `yaml:"dir"`
		InMemory *bool  `yaml:"in_memory"`
	} `yaml:"store"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		EventsFile string `yaml:"events_file"`
	} `yaml:"log"`
	Contract struct {
		Deployer        string  `yaml:"deployer"`
		Treasury        string  `yaml:"treasury"`
		InitialSupply   *uint64 `yaml:"initial_supply"`
		ProjectFeeTL    *uint64 `yaml:"project_fee_tl"`
		ProjectFeeMyGov *uint64 `yaml:"project_fee_mygov"`
		SurveyFeeTL     *uint64 `yaml:"survey_fee_tl"`
		SurveyFeeMyGov  *uint64 `yaml:"survey_fee_mygov"`
		FaucetAmount    *uint64 `yaml:"faucet_amount"`
		OpenTLMint      *bool   `yaml:"open_tl_mint"`
	} `yaml:"contract"`
	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	API struct {
		AllowTimeOverride *bool `yaml:"allow_time_override"`
	} `yaml:"api"`
}

// Default returns the configuration used when neither file nor env say otherwise.
func Default() Config {
	return Config{
		HTTPAddr:        ":8080",
		ShutdownTimeout: 10 * time.Second,
		StoreBackend:    "badger",
		StoreDir:        "./data/state",
		LogLevel:        "info",
		LogMaxSizeMB:    100,
		LogMaxBackups:   5,
		InitialSupply:   10_000_000,
		ProjectFeeTL:    4000,
		ProjectFeeMyGov: 5,
		SurveyFeeTL:     1000,
		SurveyFeeMyGov:  2,
		FaucetAmount:    1,
		MetricsEnabled:  true,
		MetricsPath:     "/metrics",
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// An empty path or a missing file just skips the file layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if f.Service.HTTPAddr != "" {
		cfg.HTTPAddr = f.Service.HTTPAddr
	}
	if f.Service.ShutdownTimeout != "" {
		d, err := time.ParseDuration(f.Service.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("service.shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if f.Store.Backend != "" {
		cfg.StoreBackend = f.Store.Backend
	}
	if f.Store.Dir != "" {
		cfg.StoreDir = f.Store.Dir
	}
	setBool(&cfg.StoreInMemory, f.Store.InMemory)

	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	if f.Log.File != "" {
		cfg.LogFile = f.Log.File
	}
	if f.Log.MaxSizeMB > 0 {
		cfg.LogMaxSizeMB = f.Log.MaxSizeMB
	}
	if f.Log.MaxBackups > 0 {
		cfg.LogMaxBackups = f.Log.MaxBackups
	}
	if f.Log.EventsFile != "" {
		cfg.EventsFile = f.Log.EventsFile
	}

	if f.Contract.Deployer != "" {
		cfg.Deployer = f.Contract.Deployer
	}
	if f.Contract.Treasury != "" {
		cfg.Treasury = f.Contract.Treasury
	}
	setUint(&cfg.InitialSupply, f.Contract.InitialSupply)
	setUint(&cfg.ProjectFeeTL, f.Contract.ProjectFeeTL)
	setUint(&cfg.ProjectFeeMyGov, f.Contract.ProjectFeeMyGov)
	setUint(&cfg.SurveyFeeTL, f.Contract.SurveyFeeTL)
	setUint(&cfg.SurveyFeeMyGov, f.Contract.SurveyFeeMyGov)
	setUint(&cfg.FaucetAmount, f.Contract.FaucetAmount)
	setBool(&cfg.OpenTLMint, f.Contract.OpenTLMint)

	setBool(&cfg.MetricsEnabled, f.Metrics.Enabled)
	if f.Metrics.Path != "" {
		cfg.MetricsPath = f.Metrics.Path
	}
	setBool(&cfg.AllowTimeOverride, f.API.AllowTimeOverride)
	return nil
}

// applyEnv takes the lookup as a parameter so tests do not have to touch the process env.
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	var errs []error
	num := func(name string, dst *uint64) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = n
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok && strings.TrimSpace(v) != "" {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	if v, ok := lookup(EnvPrefix + "SHUTDOWN_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSHUTDOWN_TIMEOUT: %w", EnvPrefix, err))
		} else {
			cfg.ShutdownTimeout = d
		}
	}
	str("STORE_BACKEND", &cfg.StoreBackend)
	str("STORE_DIR", &cfg.StoreDir)
	flag("STORE_IN_MEMORY", &cfg.StoreInMemory)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FILE", &cfg.LogFile)
	str("EVENTS_FILE", &cfg.EventsFile)
	str("DEPLOYER", &cfg.Deployer)
	str("TREASURY", &cfg.Treasury)
	num("INITIAL_SUPPLY", &cfg.InitialSupply)
	num("PROJECT_FEE_TL", &cfg.ProjectFeeTL)
	num("PROJECT_FEE_MYGOV", &cfg.ProjectFeeMyGov)
	num("SURVEY_FEE_TL", &cfg.SurveyFeeTL)
	num("SURVEY_FEE_MYGOV", &cfg.SurveyFeeMyGov)
	num("FAUCET_AMOUNT", &cfg.FaucetAmount)
	flag("OPEN_TL_MINT", &cfg.OpenTLMint)
	flag("METRICS_ENABLED", &cfg.MetricsEnabled)
	str("METRICS_PATH", &cfg.MetricsPath)
	flag("ALLOW_TIME_OVERRIDE", &cfg.AllowTimeOverride)
	return errors.Join(errs...)
}

// Validate rejects settings the node cannot start with.
func (cfg Config) Validate() error {
	switch cfg.StoreBackend {
	case "memory", "badger", "file":
	default:
		return fmt.Errorf("store.backend must be memory, badger or file, got %q", cfg.StoreBackend)
	}
	if cfg.StoreBackend != "memory" && !cfg.StoreInMemory && cfg.StoreDir == "" {
		return errors.New("store.dir is required for persistent backends")
	}
	if cfg.FaucetAmount == 0 {
		return errors.New("contract.faucet_amount must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("service.shutdown_timeout must be positive")
	}
	if !strings.HasPrefix(cfg.MetricsPath, "/") {
		return fmt.Errorf("metrics.path must start with /, got %q", cfg.MetricsPath)
	}
	return nil
}

func setUint(dst *uint64, v *uint64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
