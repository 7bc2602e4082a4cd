// Package config loads service configuration from a YAML file, an optional
// .env file and the process environment using Viper.
//
// Environment variables override file values; nested keys are matched by
// splitting on underscores, so REDIS_POOL_SIZE sets redis.pool_size.
//
// # Usage
//
//	var cfg Config
//	if err := config.LoadConfig("discovery", &cfg); err != nil {
//	    return err
//	}
package config
