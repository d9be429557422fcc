package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Values that
// are unset or fail to parse leave the current value untouched, so a broken
// variable degrades to the default rather than crashing startup.
//
// Recognized variables:
//
//	ADDRESS          HTTP bind address
//	DATABASE_DSN     PostgreSQL DSN
//	SECRET_KEY       JWT signing secret
//	TOKEN_VALIDITY   token lifetime, Go duration string ("24h")
//	BCRYPT_COST      bcrypt work factor
//	STORE_TIMEOUT    store call deadline, Go duration string ("3s")
//	STRICT_PROFILES  "true"/"false"
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v, ok := os.LookupEnv("STORE_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreTimeout = d
		}
	}
	if v, ok := os.LookupEnv("STRICT_PROFILES"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.StrictProfiles = b
		}
	}
}
