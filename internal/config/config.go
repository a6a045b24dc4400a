package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Inventory InventoryConfig
	Log       LogConfig
	Lambda    LambdaConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Backend      string
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UseSSL       bool
	SourceBucket string
	DestBucket   string
	BucketName   string
}

// Endpoint is one database the handlers connect to.
type Endpoint struct {
	Host   string
	Port   string
	DBName string
}

type DatabaseConfig struct {
	Driver   string
	User     string
	Password string
	SSLMode  string
	Source   Endpoint
	Target   Endpoint
}

type InventoryConfig struct {
	TableName    string
	SeedRows     string
	MirrorAtomic bool
}

type LogConfig struct {
	Level  string
	Format string
}

type LambdaConfig struct {
	Handler string
}

const (
	StorageBackendS3    = "s3"
	StorageBackendMinio = "minio"
)

// Load reads configuration from an optional .env file and the environment.
// Every call builds a fresh Config so concurrent invocations never share state.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Storage: StorageConfig{
			Backend:      strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
			Endpoint:     v.GetString("STORAGE_ENDPOINT"),
			Region:       v.GetString("STORAGE_REGION"),
			AccessKey:    v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:    v.GetString("STORAGE_SECRET_KEY"),
			UseSSL:       v.GetBool("STORAGE_USE_SSL"),
			SourceBucket: v.GetString("SOURCE_BUCKET"),
			DestBucket:   v.GetString("DEST_BUCKET"),
			BucketName:   v.GetString("BUCKET_NAME"),
		},
		Database: DatabaseConfig{
			Driver:   v.GetString("DB_DRIVER"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			Source: Endpoint{
				Host:   v.GetString("SOURCE_DB_HOST"),
				Port:   v.GetString("SOURCE_DB_PORT"),
				DBName: v.GetString("SOURCE_DB_NAME"),
			},
			Target: Endpoint{
				Host:   v.GetString("TARGET_DB_HOST"),
				Port:   v.GetString("TARGET_DB_PORT"),
				DBName: v.GetString("TARGET_DB_NAME"),
			},
		},
		Inventory: InventoryConfig{
			TableName:    v.GetString("TABLE_NAME"),
			SeedRows:     v.GetString("SEED_ROWS"),
			MirrorAtomic: v.GetBool("MIRROR_ATOMIC"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Lambda: LambdaConfig{
			Handler: v.GetString("LAMBDA_HANDLER"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "release")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 300)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("STORAGE_BACKEND", StorageBackendS3)
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SOURCE_DB_PORT", "5432")
	v.SetDefault("TARGET_DB_PORT", "5432")
	v.SetDefault("TABLE_NAME", "inventory_sample")
	v.SetDefault("MIRROR_ATOMIC", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// HasCredentials reports whether both DB_USER and DB_PASSWORD are set.
func (c DatabaseConfig) HasCredentials() bool {
	return c.User != "" && c.Password != ""
}

// DSN builds a libpq style connection string for the endpoint.
func (c DatabaseConfig) DSN(ep Endpoint) string {
	port := ep.Port
	if port == "" {
		port = "5432"
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		quoteDSNValue(ep.Host), quoteDSNValue(port), quoteDSNValue(c.User),
		quoteDSNValue(c.Password), quoteDSNValue(ep.DBName), quoteDSNValue(sslMode))
}

// quoteDSNValue quotes values that would otherwise break the key=value format.
func quoteDSNValue(s string) string {
	if s != "" && !strings.ContainsAny(s, ` '\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
