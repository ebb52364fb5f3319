//
//  Copyright © PortalGuard Authors. All rights reserved.
//

// Package config provides configuration management for the portal guard
// using [Viper] for flexible configuration sources.
//
// Configuration can be provided via:
//   - YAML configuration files
//   - Environment variables with the PGD_ prefix
//   - Programmatic defaults
//
// # Configuration File
//
// By default, the guard looks for pgd-config.yaml in the current
// directory. Override the location using environment variables:
//
//	PGD_CONFIG_PATH=/etc/portalguard
//	PGD_CONFIG_FILENAME=production-config
//
// Example configuration file:
//
//	log:
//	  level: ".:info"
//	mock:
//	  enabled: false
//	identity:
//	  url: https://portal.example.go.id/api
//	  timeout: 10s
//	audit:
//	  env:
//	    pod: HOSTNAME
//	    region: AWS_REGION
//
// # Environment Variables
//
// All configuration keys can be set via environment variables with the
// PGD_ prefix. Dots in key names become underscores:
//
//	PGD_LOG_LEVEL=.:debug
//	PGD_MOCK_ENABLED=true
//	PGD_IDENTITY_URL=https://portal.example.go.id/api
//
// # Configuration Keys
//
// Available configuration options:
//   - log.level: Log level configuration (default: ".:info")
//   - mock.enabled: Use mock backend instead of configured backend
//   - identity.url: Base URL of the identity API
//   - identity.timeout: Identity lookup request timeout (default: 10s)
//   - session.credential-file: Path of the persisted credential slot
//   - auditlog.pretty: Pretty-print audit records (default: false)
//   - audit.env: Map of audit record metadata keys to environment variable names
//
// [Viper]: https://github.com/spf13/viper
package config

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/balaipom/portalguard/internal/logging"
	"github.com/spf13/viper"
)

// Environment variable and default path constants for configuration loading.
const (
	// EnvVarPrefix is the prefix for all portal guard environment variables.
	// For example, the key "log.level" becomes PGD_LOG_LEVEL.
	EnvVarPrefix string = "PGD"

	// ConfigPathEnv is the environment variable that specifies the directory
	// containing the configuration file.
	ConfigPathEnv string = "PGD_CONFIG_PATH"

	// ConfigFileNameEnv is the environment variable that specifies the
	// configuration file name (without extension).
	ConfigFileNameEnv string = "PGD_CONFIG_FILENAME"

	// ConfigDefaultPath is the default directory to search for config files.
	ConfigDefaultPath string = "."

	// ConfigDefaultFilename is the default configuration file name (without extension).
	ConfigDefaultFilename string = "pgd-config"
)

// Configuration key constants for use with [VConfig].
const (
	logLevel string = "log.level"

	// MockEnabled when set to true causes the guard to use a mock
	// backend regardless of any backend configured via options.WithBackend.
	// This is useful for unit testing applications that embed the guard.
	//
	// Set via environment: PGD_MOCK_ENABLED=true
	MockEnabled string = "mock.enabled"

	// IdentityURL is the base URL of the external identity API used by
	// the session store for credential lookup and sign-in.
	//
	// Set via environment: PGD_IDENTITY_URL=https://portal.example.go.id/api
	IdentityURL string = "identity.url"

	// IdentityTimeout bounds individual identity API requests.
	//
	// Default: "10s"
	// Set via environment: PGD_IDENTITY_TIMEOUT=5s
	IdentityTimeout string = "identity.timeout"

	// CredentialFile is the path of the file-backed credential slot used
	// to persist the session token across restarts.
	//
	// Default: ".pgd-credential"
	// Set via environment: PGD_SESSION_CREDENTIAL_FILE=/var/lib/pgd/token
	CredentialFile string = "session.credential-file"

	// AuditPretty controls whether audit records written to stdout are
	// indented multi-line JSON rather than compact single-line JSON.
	//
	// Default: false
	// Set via environment: PGD_AUDITLOG_PRETTY=true
	AuditPretty string = "auditlog.pretty"

	// AuditEnv defines a mapping from audit record metadata keys to
	// environment variable names. The values of the specified environment
	// variables are included in every audit record.
	//
	// Example config:
	//
	//	audit:
	//	  env:
	//	    pod: HOSTNAME
	//	    region: AWS_REGION
	AuditEnv string = "audit.env"
)

var (
	once     sync.Once
	loadOnce sync.Once
	loadErr  error

	// VConfig is the global Viper configuration instance for the portal guard.
	//
	// VConfig provides access to all configuration values. Use the
	// configuration key constants ([MockEnabled], [IdentityURL], etc.) to
	// access specific settings:
	//
	//	if config.VConfig.GetBool(config.MockEnabled) {
	//	    // Using mock backend
	//	}
	//
	// VConfig is initialized automatically when [Load] or [Init] is called.
	// In most cases, applications don't need to access VConfig directly;
	// configuration is handled automatically by core.NewGuard.
	VConfig *viper.Viper
	logger  = logging.GetLogger("portalguard.config")
)

// Init initializes the configuration system without loading config files.
//
// Init sets up Viper with:
//   - Configuration file paths and names
//   - Environment variable handling (PGD_ prefix)
//   - Default values for all configuration keys
//
// This function is safe to call multiple times; subsequent calls are no-ops.
// Most applications don't need to call Init directly; it's called
// automatically by [Load], which is called by core.NewGuard.
func Init() {
	once.Do(func() {
		doInitialize()
	})
}

func getConfigPath() string {
	configPath, ok := os.LookupEnv(ConfigPathEnv)
	if ok {
		return configPath
	}

	return ConfigDefaultPath
}

func getConfigFileName() string {
	configName, ok := os.LookupEnv(ConfigFileNameEnv)
	if ok {
		return configName
	}

	return ConfigDefaultFilename
}

func doInitialize() {
	VConfig = viper.New()

	// set up config-file loading:  default is './pgd-config.yaml' but can be overridden with $(PGD_CONFIG_PATH)/$(PGD_CONFIG_FILENAME).yaml
	VConfig.AddConfigPath(getConfigPath())
	VConfig.SetConfigName(getConfigFileName())
	VConfig.SetConfigType("yaml")

	// set up envvar handling:  keys such as 'log.level' become 'PGD_LOG_LEVEL'
	VConfig.SetEnvPrefix(EnvVarPrefix)
	VConfig.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	VConfig.AutomaticEnv()

	// set up VConfig defaults
	VConfig.SetDefault(logLevel, ".:info")
	VConfig.SetDefault(IdentityTimeout, "10s")
	VConfig.SetDefault(CredentialFile, ".pgd-credential")
	VConfig.SetDefault(AuditPretty, false)
}

// Load initializes configuration and loads settings from files and environment.
//
// Load performs the following steps:
//  1. Calls [Init] if not already called
//  2. Reads the configuration file (if present; missing files are not an error)
//  3. Applies environment variable overrides
//  4. Updates log levels based on configuration
//
// This function is safe to call concurrently from multiple goroutines.
// Subsequent calls after the first successful load are no-ops that return nil.
//
// Load is called automatically by core.NewGuard. Most applications don't
// need to call it directly.
//
// Returns an error if log level configuration is invalid.
func Load() error {
	loadOnce.Do(func() {
		Init()

		// Early log level update from environment variable allows us to debug the config loading.
		earlyLoglevel := os.Getenv("PGD_LOG_LEVEL")
		if earlyLoglevel != "" {
			if err := logging.UpdateLogLevels(earlyLoglevel); err != nil {
				logger.SysErrorf("Failed updating early log level %s: %+v", earlyLoglevel, err)
				loadErr = err
				return
			}
		}

		logger.SysDebugf("Loading configuration from %s/%s.yaml", getConfigPath(), getConfigFileName())
		err := VConfig.ReadInConfig()
		if err != nil {
			// Only log if it's an actual error, not just a missing config file
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				logger.SysWarnf("error reading config; using defaults: %+v", err)
			}
			// fall through to continue loading
			logger.SysDebugf("No config file found at %s/%s.yaml", getConfigPath(), getConfigFileName())
		}

		// Update log levels based on final configuration
		loglevel := VConfig.GetString(logLevel)
		if err := logging.UpdateLogLevels(loglevel); err != nil {
			logger.SysErrorf("Failed updating log level %s: %+v", loglevel, err)
			loadErr = err
			return
		}

		if logger.IsDebugEnabled() {
			VConfig.DebugTo(logger.Out())
		}
	})

	return loadErr
}

// ResetConfig clears all configuration and reinitializes with defaults.
//
// WARNING: This function is intended for testing only. It resets the global
// configuration state, which can cause race conditions in concurrent code.
//
// After calling ResetConfig, the configuration system is reinitialized with
// default values. Any previously loaded configuration file or environment
// variable overrides are discarded.
func ResetConfig() {
	VConfig = nil
	once = sync.Once{}     // reset the sync.Once to allow re-initialization
	loadOnce = sync.Once{} // reset the loadOnce to allow re-loading
	loadErr = nil          // reset any previous load error
	Init()
	// ignore any reset errors
	_ = Load()
}

// GetAuditEnv returns resolved audit environment metadata for audit records.
//
// This function reads the audit.env configuration section and resolves each
// configured environment variable to its current value. The result is a map
// suitable for inclusion in audit records as metadata.
//
// Configuration format:
//
//	audit:
//	  env:
//	    pod: HOSTNAME
//	    region: AWS_REGION
//
// With HOSTNAME=pod-123 and AWS_REGION=us-east-1, this returns:
//
//	{"pod": "pod-123", "region": "us-east-1"}
//
// Environment variables that are not set will have empty string values in
// the result. Returns an empty map if no audit.env configuration is present.
func GetAuditEnv() map[string]string {
	result := make(map[string]string)

	envConfig := VConfig.GetStringMapString(AuditEnv)
	if envConfig == nil {
		return result
	}

	for key, envVarName := range envConfig {
		result[key] = os.Getenv(envVarName)
	}

	return result
}
