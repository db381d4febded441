package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DynamoDBConfig struct {
	Endpoint  string
	Region    string
	TableName string
}

type RedisConfig struct {
	Endpoint string
	Password string
	DB       int
}

type JWTConfig struct {
	SecretKey          string
	Algorithm          string
	AccessExpiry       time.Duration
	RefreshExpiry      time.Duration
	RefreshShortExpiry time.Duration
}

// DownstreamConfig holds the per-resource backend base URLs the edge router
// forwards to, plus the bound applied to every downstream call.
type DownstreamConfig struct {
	UsersBaseURL  string
	EventsBaseURL string
	MapsBaseURL   string
	CallTimeout   time.Duration
}

type MapsConfig struct {
	GeocoderURL    string
	GeocoderAPIKey string
	StaticMapURL   string
	StaticMapKey   string
	CacheTTL       time.Duration
	RequestTimeout time.Duration
}

type UsersConfig struct {
	Server   ServerConfig
	DynamoDB DynamoDBConfig
	JWT      JWTConfig
}

type EventsConfig struct {
	Server   ServerConfig
	DynamoDB DynamoDBConfig
}

type MapsServiceConfig struct {
	Server ServerConfig
	Redis  RedisConfig
	Maps   MapsConfig
}

type EdgeConfig struct {
	Server     ServerConfig
	JWT        JWTConfig
	Downstream DownstreamConfig
}

func LoadUsers() (*UsersConfig, error) {
	jwtCfg, err := loadJWT()
	if err != nil {
		return nil, err
	}

	return &UsersConfig{
		Server:   loadServer("8082"),
		DynamoDB: loadDynamoDB("RyadomUsers"),
		JWT:      *jwtCfg,
	}, nil
}

func LoadEvents() (*EventsConfig, error) {
	return &EventsConfig{
		Server:   loadServer("8083"),
		DynamoDB: loadDynamoDB("RyadomEvents"),
	}, nil
}

func LoadMaps() (*MapsServiceConfig, error) {
	return &MapsServiceConfig{
		Server: loadServer("8084"),
		Redis: RedisConfig{
			Endpoint: getEnv("REDIS_ENDPOINT", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Maps: MapsConfig{
			GeocoderURL:    getEnv("GEOCODER_URL", "https://geocode-maps.yandex.ru/v1/"),
			GeocoderAPIKey: getEnv("GEOCODER_API", ""),
			StaticMapURL:   getEnv("STATIC_MAP_URL", "https://static-maps.yandex.ru/v1"),
			StaticMapKey:   getEnv("MAPS_API", ""),
			CacheTTL:       getEnvAsDuration("GEOCODE_CACHE_TTL", 24*time.Hour),
			RequestTimeout: getEnvAsDuration("GEOCODER_TIMEOUT", 5*time.Second),
		},
	}, nil
}

func LoadEdge() (*EdgeConfig, error) {
	jwtCfg, err := loadJWT()
	if err != nil {
		return nil, err
	}

	cfg := &EdgeConfig{
		Server: loadServer("8081"),
		JWT:    *jwtCfg,
		Downstream: DownstreamConfig{
			UsersBaseURL:  getEnv("USERS_SERVICE_URL", ""),
			EventsBaseURL: getEnv("EVENTS_SERVICE_URL", ""),
			MapsBaseURL:   getEnv("MAPS_SERVICE_URL", ""),
			CallTimeout:   getEnvAsDuration("DOWNSTREAM_TIMEOUT", 10*time.Second),
		},
	}

	if cfg.Downstream.UsersBaseURL == "" {
		return nil, fmt.Errorf("USERS_SERVICE_URL environment variable is required")
	}
	if cfg.Downstream.EventsBaseURL == "" {
		return nil, fmt.Errorf("EVENTS_SERVICE_URL environment variable is required")
	}
	if cfg.Downstream.MapsBaseURL == "" {
		return nil, fmt.Errorf("MAPS_SERVICE_URL environment variable is required")
	}

	return cfg, nil
}

func loadServer(defaultPort string) ServerConfig {
	return ServerConfig{
		Port:         getEnv("PORT", defaultPort),
		ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
	}
}

func loadDynamoDB(defaultTable string) DynamoDBConfig {
	return DynamoDBConfig{
		Endpoint:  getEnv("DYNAMODB_ENDPOINT", ""),
		Region:    getEnv("DYNAMODB_REGION", "us-east-1"),
		TableName: getEnv("DYNAMODB_TABLE_NAME", defaultTable),
	}
}

// loadJWT validates the signing material at startup. A missing or short
// secret and an unknown algorithm are fatal, never per-request failures.
func loadJWT() (*JWTConfig, error) {
	cfg := &JWTConfig{
		SecretKey:          getEnv("JWT_SECRET_KEY", ""),
		Algorithm:          getEnv("JWT_ALGORITHM", "HS256"),
		AccessExpiry:       time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshExpiry:      time.Duration(getEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", 30)) * 24 * time.Hour,
		RefreshShortExpiry: time.Duration(getEnvAsInt("REFRESH_TOKEN_SHORT_EXPIRE_DAYS", 1)) * 24 * time.Hour,
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is required")
	}

	if len(cfg.SecretKey) < 32 {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be at least 32 bytes (256 bits)")
	}

	switch cfg.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("unsupported JWT algorithm %q", cfg.Algorithm)
	}

	if cfg.AccessExpiry >= cfg.RefreshShortExpiry {
		return nil, fmt.Errorf("access token expiry must be shorter than refresh token expiry")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
