package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Capacity and the zoning counts fix the
// shape of the spot registry at seeding time; the tariff table lives
// here rather than in code so deployments can override the rates.
type Config struct {
    Env           string             // application environment (e.g. "dev", "prod")
    Port          string             // HTTP port to listen on
    DBUser        string             // database username
    DBPass        string             // database password (optional)
    DBHost        string             // database host address
    DBPort        string             // database port number
    DBName        string             // database name
    Capacity      int                // total number of parking spots
    DisabledSpots int                // leading spot indices zoned for disabled vehicles
    EVSpots       int                // trailing spot indices zoned for electric vehicles
    Tariffs       map[string]float64 // per-minute rates keyed by vehicle category
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing
// values cause the program to exit with a fatal log message.  Capacity,
// zoning and tariffs fall back to the defaults of the reference lot
// (16 spots, the last two reserved for EVs).
func Load() Config {
    return Config{
        Env:           must("APP_ENV"),
        Port:          must("APP_PORT"),
        DBUser:        must("DB_USER"),
        DBPass:        os.Getenv("DB_PASS"), // empty allowed
        DBHost:        must("DB_HOST"),
        DBPort:        must("DB_PORT"),
        DBName:        must("DB_NAME"),
        Capacity:      envIntDefault("PARKING_CAPACITY", 16),
        DisabledSpots: envIntDefault("DISABLED_SPOTS", 0),
        EVSpots:       envIntDefault("EV_SPOTS", 2),
        Tariffs: map[string]float64{
            "regular":  envFloatDefault("TARIFF_REGULAR", 1.5),
            "disabled": envFloatDefault("TARIFF_DISABLED", 2.0),
            "ev":       envFloatDefault("TARIFF_EV", 2.5),
        },
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// envIntDefault reads an optional integer variable, returning def when
// the variable is unset or malformed.
func envIntDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}

// envFloatDefault reads an optional float variable, returning def when
// the variable is unset or malformed.
func envFloatDefault(key string, def float64) float64 {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    f, err := strconv.ParseFloat(v, 64)
    if err != nil {
        return def
    }
    return f
}
