package config

import (
	"flag"
	"time"

	"github.com/deepfence/IntelSync/constants"
	"github.com/deepfence/IntelSync/utils"
)

const (
	JSONOutput  = "json"
	TableOutput = "table"
)

type Options struct {
	ConfigPath           *string
	HashesPath           *string
	RulesPath            *string
	ForceBaseline        *bool
	Volatile             *bool
	Rules                *bool
	VerifyRules          *bool
	FailOnCompileWarning *bool
	UpdateInterval       *time.Duration
	HTTPTimeout          *time.Duration
	OutFormat            *string
	LogLevel             *string
	StatusLog            *string
}

func ParseOptions() (*Options, error) {
	options := &Options{
		ConfigPath:           flag.String("config-path", utils.GetEnvOrDefault("INTELSYNC_CONFIG_PATH", ""), "Searches for config.yaml from given directory. If not set, tries to find it from the binary's and current directory"),
		HashesPath:           flag.String("hashes-path", utils.GetEnvOrDefault("INTELSYNC_HASHES_PATH", ""), "Directory holding the baseline and volatile hash lists (overrides config.yaml)"),
		RulesPath:            flag.String("rules-path", utils.GetEnvOrDefault("INTELSYNC_RULES_PATH", ""), "Directory the rule bundle is extracted into (overrides config.yaml)"),
		ForceBaseline:        flag.Bool("force-baseline", false, "Refresh the baseline hash list even if it is already present"),
		Volatile:             flag.Bool("volatile", false, "Refresh the volatile hash list"),
		Rules:                flag.Bool("rules", false, "Refresh the yara rule directory"),
		VerifyRules:          flag.Bool("verify-rules", utils.GetEnvOrDefaultBool("INTELSYNC_VERIFY_RULES", false), "Compile the rule directory after a rule refresh"),
		FailOnCompileWarning: flag.Bool("fail-on-rule-compile-warn", false, "Fail rule verification if yara rule compilation has warnings"),
		UpdateInterval:       flag.Duration("update-interval", 0, "Keep running and repeat the sync at this interval (0 runs once)"),
		HTTPTimeout:          flag.Duration("http-timeout", 0, "Timeout for a single feed download (0 means none)"),
		OutFormat:            flag.String("output", TableOutput, "Output format: json or table"),
		LogLevel:             flag.String("log-level", utils.GetEnvOrDefault("INTELSYNC_LOG_LEVEL", "info"), "Log levels are one of error, warn, info, debug. Only levels higher than the log-level are displayed"),
		StatusLog:            flag.String("status-log", utils.GetEnvOrDefault("INTELSYNC_STATUS_LOG", utils.GetInstallDir()+"/var/log/intelsync/sync_status.log"), "File receiving one json status line per sync, empty disables it"),
	}
	flag.Parse()
	return options, nil
}

// NewDefaultOptions returns the default options without flag parsing
func NewDefaultOptions() *Options {
	var configPath, statusLog string
	var hashesPath = constants.DefaultHashesPath
	var rulesPath = constants.DefaultRulesPath
	var forceBaseline, volatile, rules, verifyRules, failOnCompileWarning bool
	var updateInterval, httpTimeout time.Duration
	var outFormat = TableOutput
	var logLevel = "info"
	return &Options{
		ConfigPath:           &configPath,
		HashesPath:           &hashesPath,
		RulesPath:            &rulesPath,
		ForceBaseline:        &forceBaseline,
		Volatile:             &volatile,
		Rules:                &rules,
		VerifyRules:          &verifyRules,
		FailOnCompileWarning: &failOnCompileWarning,
		UpdateInterval:       &updateInterval,
		HTTPTimeout:          &httpTimeout,
		OutFormat:            &outFormat,
		LogLevel:             &logLevel,
		StatusLog:            &statusLog,
	}
}

// Resolve fills the cache locations: flags first, then config.yaml, then the
// built-in defaults.
func (o *Options) Resolve(c *Config) (hashesPath, rulesPath string) {
	hashesPath, rulesPath = *o.HashesPath, *o.RulesPath
	if hashesPath == "" {
		hashesPath = c.HashesPath
	}
	if hashesPath == "" {
		hashesPath = constants.DefaultHashesPath
	}
	if rulesPath == "" {
		rulesPath = c.RulesPath
	}
	if rulesPath == "" {
		rulesPath = constants.DefaultRulesPath
	}
	return hashesPath, rulesPath
}
