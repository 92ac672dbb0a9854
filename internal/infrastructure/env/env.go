package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvService reads configuration from the process environment after loading
// .env and .env.<APP_ENV> files.
type EnvService struct {
	AppEnv string
	// Loaded lists the env files that were found and applied.
	Loaded []string
}

func NewEnvService() *EnvService {
	return NewEnvServiceFrom(".")
}

// NewEnvServiceFrom loads env files from dir. .env is loaded first without
// overriding the process environment; .env.<APP_ENV> then overrides.
func NewEnvServiceFrom(dir string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	s := &EnvService{AppEnv: appEnv}

	base := dir + "/.env"
	if err := godotenv.Load(base); err == nil {
		s.Loaded = append(s.Loaded, base)
	}

	envFile := fmt.Sprintf("%s/.env.%s", dir, appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		s.Loaded = append(s.Loaded, envFile)
	}

	return s
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) Lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (e *EnvService) MustGet(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("ENV %s is missing", key)
	}
	return val, nil
}

func (e *EnvService) GetWithDefault(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
