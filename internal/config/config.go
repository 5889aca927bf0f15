package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Upload   UploadConfig   `mapstructure:"upload"   validate:"required"`
	Email    EmailConfig    `mapstructure:"email"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs session tokens. Must be long enough for HMAC-SHA256
	// to be meaningful.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is how long an issued session token stays
	// cryptographically valid. Revocation via logout is independent of this.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost controls the work factor for password hashing.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// UploadConfig constrains avatar uploads.
type UploadConfig struct {
	// MaxAvatarBytes is the upload size cap for avatar images.
	MaxAvatarBytes int64 `mapstructure:"max_avatar_bytes" validate:"required,gt=0"`

	// AvatarSize is the square pixel dimension avatars are normalized to.
	AvatarSize int `mapstructure:"avatar_size" validate:"required,gt=0"`
}

// EmailConfig configures the outbound notification mailer.
// When Host is empty, notifications are logged instead of sent.
type EmailConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
	User string `mapstructure:"user"`
	Pass string `mapstructure:"pass"`
}

// WorkerConfig configures the background notification job runner.
type WorkerConfig struct {
	Count     int `mapstructure:"count"      validate:"gte=0"`
	QueueSize int `mapstructure:"queue_size" validate:"gte=0"`
}
