package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables

    "github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds the runtime configuration of the seat gateway server.  Each
// field corresponds to an environment variable.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    MigrateOnStart bool   // create tables and seed seats at startup
    RecentLimit    int    // default page size for GET /v1/bookings
}

// Load reads configuration values from environment variables and returns a
// Config.  A .env file in the working directory is applied first when
// present; real environment variables win over it.  Required variables are
// enforced by must() and missing values cause the program to exit with a
// fatal log message.
func Load() Config {
    LoadDotEnv()
    return Config{
        Env:            envStr("APP_ENV", "dev"),           // environment (dev/test/prod)
        Port:           envStr("APP_PORT", "8080"),         // port to bind the HTTP server
        DBUser:         must("DB_USER"),                    // database user
        DBPass:         os.Getenv("DB_PASS"),               // database password (empty allowed)
        DBHost:         must("DB_HOST"),                    // database host
        DBPort:         envStr("DB_PORT", "3306"),          // database port
        DBName:         must("DB_NAME"),                    // database name
        MigrateOnStart: envBool("DB_MIGRATE", true),        // run migrations at boot
        RecentLimit:    envInt("BOOKINGS_PAGE_SIZE", 50),   // bookings listed per request
    }
}

// LoadDotEnv applies a .env file when one exists.  Variables already set in
// the environment are not overridden.
func LoadDotEnv() {
    if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
        log.Printf("config: ignoring .env: %v", err)
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
