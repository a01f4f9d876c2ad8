// Package config loads service configuration from config.yml, an optional
// .env file and the process environment using viper and godotenv.
//
//	var cfg Config
//	err := config.LoadConfig("voicekit", &cfg, config.WithEnvPrefix("VOICEKIT"))
//
// Environment variables override file values using underscore-separated
// paths (VOICEKIT_DATABASE_DSN sets database.dsn).
package config
