package config // package config loads application configuration from environment variables

import (
    "fmt"
    "log"
    "os"
    "strconv"
    "strings"

    "github.com/joho/godotenv"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
    StorageMemory = "memory"
    StorageRedis  = "redis"
    StorageMySQL  = "mysql"
)

// Sync transports accepted in SYNC_TRANSPORT.
const (
    TransportNone  = "none"
    TransportRedis = "redis"
    TransportAMQP  = "amqp"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    JWTSecret    string // secret used to sign JWTs
    AccessTTLMin int    // access token time-to-live in minutes

    StorageBackend string // memory | redis | mysql
    SyncTransport  string // none | redis | amqp
    StoreDebug     bool   // log every store operation at info level
    StorageQuota   int    // byte quota of the memory backend, 0 for none
    RedisPrefix    string // key prefix of the redis backend

    DBUser string // database username (mysql backend)
    DBPass string // database password (optional)
    DBHost string // database host address
    DBPort string // database port number
    DBName string // database name

    RabbitMQURL   string // broker for the amqp transport and booking events
    EventsEnabled bool   // publish booking events and run the log consumer
    EventsLogDir  string // directory of booking.log
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv() {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        log.Printf("config: could not read .env: %v", err)
    }
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing or invalid values cause the program to exit with a fatal
// log message.
func Load() Config {
    cfg, err := Parse()
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    return cfg
}

// Parse is Load without exiting.
func Parse() (Config, error) {
    cfg := Config{
        Env:            envStr("APP_ENV", "dev"),
        Port:           envStr("APP_PORT", "8080"),
        JWTSecret:      os.Getenv("JWT_SECRET"),
        AccessTTLMin:   envInt("ACCESS_TOKEN_TTL_MIN", 60),
        StorageBackend: strings.ToLower(envStr("STORAGE_BACKEND", StorageMemory)),
        SyncTransport:  strings.ToLower(envStr("SYNC_TRANSPORT", TransportNone)),
        StoreDebug:     envBool("STORE_DEBUG", false),
        StorageQuota:   envInt("STORAGE_QUOTA_BYTES", 5<<20),
        RedisPrefix:    envStr("REDIS_KEY_PREFIX", "studyspot:"),
        DBUser:         os.Getenv("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"),
        DBHost:         envStr("DB_HOST", "127.0.0.1"),
        DBPort:         envStr("DB_PORT", "3306"),
        DBName:         os.Getenv("DB_NAME"),
        RabbitMQURL:    envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
        EventsEnabled:  envBool("EVENTS_ENABLED", false),
        EventsLogDir:   envStr("EVENTS_LOG_DIR", "logs"),
    }

    if cfg.JWTSecret == "" {
        return cfg, missing("JWT_SECRET")
    }
    if cfg.AccessTTLMin <= 0 {
        return cfg, fmt.Errorf("invalid int for ACCESS_TOKEN_TTL_MIN: %q", os.Getenv("ACCESS_TOKEN_TTL_MIN"))
    }
    switch cfg.StorageBackend {
    case StorageMemory, StorageRedis:
    case StorageMySQL:
        if cfg.DBUser == "" {
            return cfg, missing("DB_USER")
        }
        if cfg.DBName == "" {
            return cfg, missing("DB_NAME")
        }
    default:
        return cfg, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
    }
    switch cfg.SyncTransport {
    case TransportNone, TransportRedis:
    case TransportAMQP:
        if cfg.RabbitMQURL == "" {
            return cfg, missing("RABBITMQ_URL")
        }
    default:
        return cfg, fmt.Errorf("unknown SYNC_TRANSPORT %q", cfg.SyncTransport)
    }
    if cfg.EventsEnabled && cfg.RabbitMQURL == "" {
        return cfg, missing("RABBITMQ_URL")
    }
    return cfg, nil
}

// NeedsRedis reports whether the storage backend or the sync transport uses
// Redis.
func (c Config) NeedsRedis() bool {
    return c.StorageBackend == StorageRedis || c.SyncTransport == TransportRedis
}

func missing(key string) error {
    return fmt.Errorf("missing required env var: %s", key)
}

// ParseBool is the boolean syntax used by every *_ENABLED variable.
func ParseBool(v string) (bool, bool) {
    switch strings.ToLower(strings.TrimSpace(v)) {
    case "1", "true", "yes", "on":
        return true, true
    case "0", "false", "no", "off":
        return false, true
    }
    return false, false
}

func atoi(s string) (int, bool) {
    n, err := strconv.Atoi(strings.TrimSpace(s))
    return n, err == nil
}
