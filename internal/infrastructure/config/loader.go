package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./.env",
	"../.env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment
func LoadConfig() (*Config, error) {
	// Load environment variables from .env file first
	if err := loadDotEnvFile(); err != nil {
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")

	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Environment variables override config-file values
	v.SetEnvPrefix("MPESA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	processEnvOverrides(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	var lastError error

	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return nil
			} else {
				lastError = err
			}
		}
	}

	if lastError != nil {
		return fmt.Errorf("could not load any .env file: %w", lastError)
	}

	return fmt.Errorf("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 15)      // seconds
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds
	v.SetDefault("server.frontendOrigin", "http://localhost:5173")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.callerInfo", true)

	v.SetDefault("daraja.environment", DarajaSandbox)
	v.SetDefault("daraja.httpTimeout", 30)        // seconds
	v.SetDefault("daraja.tokenRefreshMargin", 60) // seconds
}

// getEnvironment determines the environment based on MPESA_ENV
func getEnvironment() string {
	env := os.Getenv("MPESA_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processEnvOverrides ensures sensitive environment variables override
// values from the config file.
func processEnvOverrides(v *viper.Viper) {
	// Database credentials
	if dbHost := os.Getenv("MPESA_DB_HOST"); dbHost != "" {
		v.Set("database.host", dbHost)
	}
	if dbPort := os.Getenv("MPESA_DB_PORT"); dbPort != "" {
		v.Set("database.port", dbPort)
	}
	if dbUser := os.Getenv("MPESA_DB_USERNAME"); dbUser != "" {
		v.Set("database.username", dbUser)
	}
	if dbPass := os.Getenv("MPESA_DB_PASSWORD"); dbPass != "" {
		v.Set("database.password", dbPass)
	}
	if dbName := os.Getenv("MPESA_DB_NAME"); dbName != "" {
		v.Set("database.database", dbName)
	}
	if sslMode := os.Getenv("MPESA_DB_SSL_MODE"); sslMode != "" {
		v.Set("database.sslMode", sslMode)
	}

	// Daraja API credentials
	if key := os.Getenv("MPESA_CONSUMER_KEY"); key != "" {
		v.Set("daraja.consumerKey", key)
	}
	if secret := os.Getenv("MPESA_CONSUMER_SECRET"); secret != "" {
		v.Set("daraja.consumerSecret", secret)
	}
	if env := os.Getenv("MPESA_ENVIRONMENT"); env != "" {
		v.Set("daraja.environment", env)
	}
	if shortCode := os.Getenv("MPESA_BUSINESS_SHORT_CODE"); shortCode != "" {
		v.Set("daraja.shortCode", shortCode)
	}
	if passkey := os.Getenv("MPESA_PASSKEY"); passkey != "" {
		v.Set("daraja.passkey", passkey)
	}
	if initiator := os.Getenv("MPESA_INITIATOR_NAME"); initiator != "" {
		v.Set("daraja.initiatorName", initiator)
	}
	if credential := os.Getenv("MPESA_SECURITY_CREDENTIAL"); credential != "" {
		v.Set("daraja.securityCredential", credential)
	}
	if url := os.Getenv("MPESA_CALLBACK_URL"); url != "" {
		v.Set("daraja.callbackUrl", url)
	}
	if url := os.Getenv("MPESA_RESULT_URL"); url != "" {
		v.Set("daraja.resultUrl", url)
	}
	if url := os.Getenv("MPESA_TIMEOUT_URL"); url != "" {
		v.Set("daraja.timeoutUrl", url)
	}

	// Server settings
	if serverPort := os.Getenv("MPESA_SERVER_PORT"); serverPort != "" {
		v.Set("server.port", serverPort)
	}
	if origin := os.Getenv("MPESA_FRONTEND_URL"); origin != "" {
		v.Set("server.frontendOrigin", origin)
	}

	// Logger settings
	if logLevel := os.Getenv("MPESA_LOGGER_LEVEL"); logLevel != "" {
		v.Set("logger.level", logLevel)
	}
}

// processDurations converts duration fields from their raw config values
func processDurations(config *Config) {
	// Seconds
	config.Server.ReadTimeout = time.Duration(config.Server.ReadTimeout) * time.Second
	config.Server.WriteTimeout = time.Duration(config.Server.WriteTimeout) * time.Second
	config.Server.IdleTimeout = time.Duration(config.Server.IdleTimeout) * time.Second
	config.Server.ReadHeaderTimeout = time.Duration(config.Server.ReadHeaderTimeout) * time.Second
	config.Server.ShutdownTimeout = time.Duration(config.Server.ShutdownTimeout) * time.Second

	// Minutes
	config.Database.ConnMaxLifetime = time.Duration(config.Database.ConnMaxLifetime) * time.Minute
	config.Database.ConnMaxIdleTime = time.Duration(config.Database.ConnMaxIdleTime) * time.Minute

	// Seconds
	config.Database.QueryTimeout = time.Duration(config.Database.QueryTimeout) * time.Second
	config.Database.RetryDelay = time.Duration(config.Database.RetryDelay) * time.Second
	config.Daraja.HTTPTimeout = time.Duration(config.Daraja.HTTPTimeout) * time.Second
	config.Daraja.TokenRefreshMargin = time.Duration(config.Daraja.TokenRefreshMargin) * time.Second
}
