package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Daraja      DarajaConfig   `mapstructure:"daraja"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
	FrontendOrigin    string        `mapstructure:"frontendOrigin"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}

// DarajaConfig contains the Safaricom Daraja API credentials and endpoints.
// Environment selects the base URL: sandbox or live.
type DarajaConfig struct {
	Environment        string        `mapstructure:"environment"`
	ConsumerKey        string        `mapstructure:"consumerKey"`
	ConsumerSecret     string        `mapstructure:"consumerSecret"`
	ShortCode          string        `mapstructure:"shortCode"`
	Passkey            string        `mapstructure:"passkey"`
	InitiatorName      string        `mapstructure:"initiatorName"`
	SecurityCredential string        `mapstructure:"securityCredential"`
	CallbackURL        string        `mapstructure:"callbackUrl"`
	ResultURL          string        `mapstructure:"resultUrl"`
	TimeoutURL         string        `mapstructure:"timeoutUrl"`
	HTTPTimeout        time.Duration `mapstructure:"httpTimeout"`        // seconds
	TokenRefreshMargin time.Duration `mapstructure:"tokenRefreshMargin"` // seconds
}

// Daraja environment names
const (
	DarajaSandbox = "sandbox"
	DarajaLive    = "live"
)

// BaseURL returns the vendor API base URL for the configured environment.
func (d DarajaConfig) BaseURL() string {
	if d.Environment == DarajaLive {
		return "https://api.safaricom.co.ke"
	}
	return "https://sandbox.safaricom.co.ke"
}
