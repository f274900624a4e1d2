package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Broker   BrokerConfig   `mapstructure:"broker"   validate:"required"`
	SMTP     SMTPConfig     `mapstructure:"smtp"     validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all HTTP server related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// BrokerConfig contains the task broker (Redis) connection settings.
// The broker address is the only required field; password and DB number
// default to the values a local Redis accepts.
type BrokerConfig struct {
	Addr     string `mapstructure:"addr" validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"   validate:"gte=0"`
}

// SMTPConfig contains the email transport settings and the default
// sender address used for contact form notifications.
type SMTPConfig struct {
	Host        string `mapstructure:"host"         validate:"required"`
	Port        int    `mapstructure:"port"         validate:"required,gt=0,lt=65536"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	UseTLS      bool   `mapstructure:"use_tls"`
	FromAddress string `mapstructure:"from_address" validate:"required,email"`
}

// AuthConfig contains the settings for the admin listing endpoints.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"     validate:"required,min=32"`
	TokenLifetime int    `mapstructure:"token_lifetime" validate:"gt=0"` // minutes
}
