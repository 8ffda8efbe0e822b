package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                     string
	Origin                   string
	Environment              string
	JWTSecret                string
	JWTExpirationMinutes     int
	Database                 DatabaseConfig
	AppointmentBufferMinutes int
	AuthRatePerMinute        int
	WriteRatePerMinute       int
}

// Buffer returns the minimum gap enforced between consecutive bookings for
// the same doctor.
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.AppointmentBufferMinutes) * time.Minute
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "clinic"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	bufferMinutes, err := strconv.Atoi(getEnv("APPOINTMENT_BUFFER_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPOINTMENT_BUFFER_MINUTES: %w", err)
	}

	authRate, err := strconv.Atoi(getEnv("AUTH_RATE_PER_MINUTE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_PER_MINUTE: %w", err)
	}

	writeRate, err := strconv.Atoi(getEnv("WRITE_RATE_PER_MINUTE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_RATE_PER_MINUTE: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:                     getEnv("PORT", "5000"),
		Origin:                   getEnv("CORS_ORIGIN", "http://localhost:5173"),
		Environment:              getEnv("APP_ENV", "development"),
		JWTSecret:                getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpirationMinutes:     jwtExpMinutes,
		Database:                 dbConfig,
		AppointmentBufferMinutes: bufferMinutes,
		AuthRatePerMinute:        authRate,
		WriteRatePerMinute:       writeRate,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
