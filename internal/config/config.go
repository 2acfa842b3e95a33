package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types

    "github.com/joho/godotenv" // godotenv loads a local .env file into the process environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database fields depend on DBDriver: MySQL needs
// the connection parts, SQLite only a file path.
type Config struct {
    Env            string // application environment (e.g. "development", "production")
    Port           string // HTTP port to listen on
    DBDriver       string // "mysql" or "sqlite3"
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    DBPath         string // sqlite file path
    AutoMigrate    bool   // apply the schema at startup
    JWTSecret      string // secret used to sign JWTs
    AccessTTLMin   int    // access token time‑to‑live in minutes
    RefreshTTLDays int    // refresh token time‑to‑live in days
    BcryptCost     int    // bcrypt cost for password hashing
    PasswordMinLen int    // minimum accepted password length
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is loaded first when present;
// variables already set in the environment win.  Required variables are
// enforced by must() and missing values cause the program to exit.
func Load() Config {
    _ = godotenv.Load() // absent .env is fine

    cfg := Config{
        Env:            must("APP_ENV"),                      // environment (development/production)
        Port:           must("APP_PORT"),                     // port to bind the HTTP server
        DBDriver:       envStr("DB_DRIVER", "mysql"),         // database driver
        AutoMigrate:    envBool("DB_AUTO_MIGRATE", true),     // schema bootstrap
        JWTSecret:      must("JWT_SECRET"),                   // secret used for signing JWTs
        AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),      // TTL for access tokens in minutes
        RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),    // TTL for refresh tokens in days
        BcryptCost:     mustInt("BCRYPT_COST"),               // bcrypt cost factor
        PasswordMinLen: envInt("PASSWORD_MIN_LENGTH", 8),     // password policy
    }
    switch cfg.DBDriver {
    case "mysql":
        cfg.DBUser = must("DB_USER")
        cfg.DBPass = os.Getenv("DB_PASS") // empty allowed
        cfg.DBHost = must("DB_HOST")
        cfg.DBPort = must("DB_PORT")
        cfg.DBName = must("DB_NAME")
    case "sqlite3":
        cfg.DBPath = must("DB_PATH")
    default:
        log.Fatalf("unsupported DB_DRIVER: %q", cfg.DBDriver)
    }
    return cfg
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c Config) IsDevelopment() bool { return c.Env == "development" || c.Env == "dev" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
