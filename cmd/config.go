package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecret string

	KafkaBrokers       []string
	KafkaClientID      string
	KafkaOrderTopic    string
	KafkaCylinderTopic string

	MaxOrderQuantityKg float64
	MaxScheduleAhead   time.Duration

	ScanRapidThreshold int
	ScanWindow         time.Duration
	ScanMaxTravelKm    float64

	AssignmentMaxAttempts int

	DispatchCron    string
	DispatchBatch   int
	DispatchActorID string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "dispatch")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("KAFKA_CLIENT_ID", "dispatch")
	v.SetDefault("KAFKA_ORDER_TOPIC", "dispatch.orders")
	v.SetDefault("KAFKA_CYLINDER_TOPIC", "dispatch.cylinders")
	v.SetDefault("MAX_ORDER_QUANTITY_KG", 1000.0)
	v.SetDefault("MAX_SCHEDULE_AHEAD", 30*24*time.Hour)
	v.SetDefault("SCAN_RAPID_THRESHOLD", 5)
	v.SetDefault("SCAN_WINDOW", 5*time.Minute)
	v.SetDefault("SCAN_MAX_TRAVEL_KM", 50.0)
	v.SetDefault("ASSIGNMENT_MAX_ATTEMPTS", 2)
	v.SetDefault("DISPATCH_CRON", "*/15 * * * * *")
	v.SetDefault("DISPATCH_BATCH", 20)
	v.SetDefault("DISPATCH_ACTOR_ID", "00000000-0000-4000-8000-000000000001")
}

// LoadConfig reads envFile into the process environment when it exists and
// then resolves every key from the environment, falling back to defaults.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		HTTPPort:              v.GetString("HTTP_PORT"),
		DBHost:                v.GetString("DB_HOST"),
		DBPort:                v.GetString("DB_PORT"),
		DBUser:                v.GetString("DB_USER"),
		DBPassword:            v.GetString("DB_PASSWORD"),
		DBName:                v.GetString("DB_NAME"),
		DBSslMode:             v.GetString("DB_SSLMODE"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		KafkaBrokers:          splitList(v.GetString("KAFKA_BROKERS")),
		KafkaClientID:         v.GetString("KAFKA_CLIENT_ID"),
		KafkaOrderTopic:       v.GetString("KAFKA_ORDER_TOPIC"),
		KafkaCylinderTopic:    v.GetString("KAFKA_CYLINDER_TOPIC"),
		MaxOrderQuantityKg:    v.GetFloat64("MAX_ORDER_QUANTITY_KG"),
		MaxScheduleAhead:      v.GetDuration("MAX_SCHEDULE_AHEAD"),
		ScanRapidThreshold:    v.GetInt("SCAN_RAPID_THRESHOLD"),
		ScanWindow:            v.GetDuration("SCAN_WINDOW"),
		ScanMaxTravelKm:       v.GetFloat64("SCAN_MAX_TRAVEL_KM"),
		AssignmentMaxAttempts: v.GetInt("ASSIGNMENT_MAX_ATTEMPTS"),
		DispatchCron:          v.GetString("DISPATCH_CRON"),
		DispatchBatch:         v.GetInt("DISPATCH_BATCH"),
		DispatchActorID:       v.GetString("DISPATCH_ACTOR_ID"),
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that have no usable default.
func (c Config) Validate() error {
	var problems []error
	if strings.TrimSpace(c.JWTSecret) == "" {
		problems = append(problems, errors.New("JWT_SECRET is required"))
	}
	if c.ScanRapidThreshold < 1 {
		problems = append(problems, errors.New("SCAN_RAPID_THRESHOLD must be positive"))
	}
	if c.ScanWindow <= 0 {
		problems = append(problems, errors.New("SCAN_WINDOW must be positive"))
	}
	if c.MaxOrderQuantityKg <= 0 {
		problems = append(problems, errors.New("MAX_ORDER_QUANTITY_KG must be positive"))
	}
	return errors.Join(problems...)
}

// DSN builds the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
