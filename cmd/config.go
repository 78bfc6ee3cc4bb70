package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"pickup/internal/adapters/out/cainiao"
	"pickup/internal/jobs"
	"pickup/internal/pkg/errs"
	"pickup/internal/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PICKUP"

// lockTTLMargin is added to the run timeout when PICKUP_REDIS_LOCK_TTL is not
// set, so a batch is cancelled before its lock can expire.
const lockTTLMargin = time.Minute

const defaultSyncRunTimeout = 10 * time.Minute

// Config is the service configuration, read from PICKUP_* variables.
type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBLogLevel string

	Log logger.Config

	GatewayTimeout time.Duration

	SchedulerEnabled      bool
	OrderSyncSchedule     string
	LogisticsSyncSchedule string
	SyncRunTimeout        time.Duration

	KafkaBrokers           []string
	KafkaOrderChangedTopic string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	BatchLockTTL  time.Duration
}

// LoadConfig reads an optional .env file and then PICKUP_* environment
// variables; the environment wins over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !isMissingFile(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		HTTPPort: v.GetString("http.port"),

		DBHost:     v.GetString("db.host"),
		DBPort:     v.GetString("db.port"),
		DBUser:     v.GetString("db.user"),
		DBPassword: v.GetString("db.password"),
		DBName:     v.GetString("db.name"),
		DBSslMode:  v.GetString("db.sslmode"),
		DBLogLevel: v.GetString("db.log_level"),

		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},

		GatewayTimeout: v.GetDuration("gateway.timeout"),

		SchedulerEnabled:      v.GetBool("scheduler.enabled"),
		OrderSyncSchedule:     v.GetString("scheduler.order_sync_cron"),
		LogisticsSyncSchedule: v.GetString("scheduler.logistics_sync_cron"),
		SyncRunTimeout:        v.GetDuration("scheduler.run_timeout"),

		KafkaBrokers:           splitList(v.GetString("kafka.brokers")),
		KafkaOrderChangedTopic: v.GetString("kafka.order_changed_topic"),

		RedisAddr:     v.GetString("redis.addr"),
		RedisPassword: v.GetString("redis.password"),
		RedisDB:       v.GetInt("redis.db"),
		BatchLockTTL:  v.GetDuration("redis.lock_ttl"),
	}

	if cfg.BatchLockTTL == 0 {
		cfg.BatchLockTTL = cfg.SyncRunTimeout + lockTTLMargin
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", "8080")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.log_level", "warn")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("gateway.timeout", cainiao.DefaultTimeout)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.order_sync_cron", jobs.DefaultOrderSyncSchedule)
	v.SetDefault("scheduler.logistics_sync_cron", jobs.DefaultLogisticsSyncSchedule)
	v.SetDefault("scheduler.run_timeout", defaultSyncRunTimeout)
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.order_changed_topic", "pickup.order.changed")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}

// Validate requires the database credentials and a batch lock that outlives
// the longest allowed sync run.
func (c Config) Validate() error {
	var errList []error
	if c.DBUser == "" {
		errList = append(errList, errs.NewValueIsRequiredError("PICKUP_DB_USER"))
	}
	if c.DBName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("PICKUP_DB_NAME"))
	}
	if c.GatewayTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("PICKUP_GATEWAY_TIMEOUT"))
	}
	if c.SyncRunTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("PICKUP_SCHEDULER_RUN_TIMEOUT"))
	}
	if c.BatchLockTTL < c.SyncRunTimeout {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("PICKUP_REDIS_LOCK_TTL",
			fmt.Errorf("lock ttl %s is shorter than run timeout %s", c.BatchLockTTL, c.SyncRunTimeout)))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaOrderChangedTopic == "" {
		errList = append(errList, errs.NewValueIsRequiredError("PICKUP_KAFKA_ORDER_CHANGED_TOPIC"))
	}
	return errors.Join(errList...)
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
