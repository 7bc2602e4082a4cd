package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/discovery/logger"
)

// FileSystem is the part of the OS the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads from the real filesystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv exports the variables of a .env file without overriding ones
// already set in the process.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Sources names the files a service's configuration is read from. Empty
// fields mean none was found.
type Sources struct {
	ConfigFile string
	EnvFile    string
}

// Locate fills whichever of explicit's fields are empty with the first
// existing standard location for service.
func Locate(fs FileSystem, service string, explicit Sources) Sources {
	first := func(candidates ...string) string {
		for _, p := range candidates {
			if fs.Exists(p) {
				return p
			}
		}
		return ""
	}
	if explicit.ConfigFile == "" {
		explicit.ConfigFile = first(
			"./cmd/"+service+"/config.yml",
			"../cmd/"+service+"/config.yml",
			"../../cmd/"+service+"/config.yml",
			"./config/config.yml",
			"./config.yml",
		)
	}
	if explicit.EnvFile == "" {
		explicit.EnvFile = first(
			"./cmd/"+service+"/.env",
			"./.env."+service,
			"./.env",
		)
	}
	return explicit
}

type loader struct {
	fs      FileSystem
	sources Sources
}

// LoaderOption customizes LoadConfig.
type LoaderOption func(*loader)

// WithFileSystem replaces the OS filesystem, mostly for tests.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(l *loader) { l.fs = fs }
}

// WithConfigFile reads path instead of searching for config.yml.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.sources.ConfigFile = path }
}

// WithEnvFile reads path instead of searching for a .env file.
func WithEnvFile(path string) LoaderOption {
	return func(l *loader) { l.sources.EnvFile = path }
}

// LoadConfig decodes service's configuration into cfg. Precedence, lowest
// first: the YAML file, the .env file, the process environment. A missing
// file is not an error; a malformed one is.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	l := loader{fs: OSFileSystem{}}
	for _, opt := range opts {
		opt(&l)
	}
	src := Locate(l.fs, service, l.sources)

	v := viper.New()
	if src.ConfigFile != "" && l.fs.Exists(src.ConfigFile) {
		v.SetConfigFile(src.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", src.ConfigFile, err)
		}
	}
	if src.EnvFile != "" && l.fs.Exists(src.EnvFile) {
		if err := l.fs.LoadEnv(src.EnvFile); err != nil {
			logger.Warn("Ignoring unreadable .env file", logger.Fields("path", src.EnvFile, logger.FieldError, err.Error()))
		}
	}
	applyEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", service, err)
	}
	return nil
}

// applyEnv copies environment variables onto config keys. A variable is
// taken when one of its key spellings is already present in the file or is
// nested, which keeps PATH and friends out of the config.
func applyEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, key := range envKeys(name) {
			if strings.Contains(key, ".") || v.IsSet(key) {
				v.Set(key, value)
			}
		}
	}
}

// envKeys lists the config keys an environment variable may stand for,
// moving the section split one underscore further each time:
//
//	REDIS_POOL_SIZE -> redis_pool_size, redis.pool_size, redis.pool.size
func envKeys(name string) []string {
	name = strings.ToLower(name)
	keys := []string{name}
	for i := 0; i < len(name); i++ {
		if name[i] != '_' || i == 0 || i == len(name)-1 {
			continue
		}
		head := strings.ReplaceAll(name[:i], "_", ".")
		keys = append(keys, head+"."+name[i+1:])
	}
	return keys
}
