package config // package config loads application configuration from environment variables

import (
    "errors"
    "io/fs"
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"
)

// Config holds the required runtime configuration.  Each field corresponds
// to an environment variable; optional subsystems (cache, rate limit,
// redis, queue) have their own Load* functions with defaults.
type Config struct {
    Env            string // application environment (dev/test/prod)
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    MigrateOnStart bool   // apply the embedded schema at startup
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time-to-live in minutes
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
}

// LoadDotEnv reads a .env file from the working directory if one exists.
// Variables already set in the environment win.
func LoadDotEnv() {
    if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
        log.Printf("config: .env not loaded: %v", err)
    }
}

// Load reads configuration values from the environment.  Missing required
// variables stop the program with a fatal log message.
func Load() Config {
    LoadDotEnv()
    return Config{
        Env:            must("APP_ENV"),
        Port:           must("APP_PORT"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"),
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        MigrateOnStart: envBool("DB_MIGRATE", false),
        JWTSecret:      must("JWT_SECRET"),
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
        BcryptCost:     envInt("BCRYPT_COST", 12),
    }
}

// must retrieves a required environment variable or exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must but parses the value as an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
