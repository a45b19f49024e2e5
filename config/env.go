package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultAppPort       = "3000"
	defaultAppEnv        = "local"
	defaultDataDir       = "data"
	defaultMenuFiles     = "home,value-pack,yummy,special,promo"
	defaultRedisAddr     = "localhost:6379"
	defaultJWTSecret     = "change-me-in-production"
	defaultEventsDriver  = "memory"
	defaultEventsKey     = "delish:orders:events"
	defaultUploadRoot    = "public/uploads"
	defaultUploadURL     = "/uploads"
	defaultJanitorSpec   = "@every 10m"
	defaultJanitorMaxAge = time.Hour
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

// Load merges config/app.json and .env over the defaults. Process environment
// variables win over both. Safe to call many times.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":            defaultAppEnv,
		"APP_PORT":           defaultAppPort,
		"DATA_DIR":           defaultDataDir,
		"MENU_CATEGORIES":    defaultMenuFiles,
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": defaultUploadRoot,
		"STORAGE_URL":        defaultUploadURL,
		"EVENTS_DRIVER":      defaultEventsDriver,
		"EVENTS_REDIS_KEY":   defaultEventsKey,
		"REDIS_ADDR":         defaultRedisAddr,
		"REDIS_PASSWORD":     "",
		"AUTH_ENABLED":       "false",
		"JWT_SECRET":         defaultJWTSecret,
		"RATE_LIMIT_RPS":     "20",
		"RATE_LIMIT_BURST":   "40",
		"MAX_BODY_BYTES":     "4194304",
		"MAX_UPLOAD_BYTES":   "8388608",
		"JANITOR_SCHEDULE":   defaultJanitorSpec,
		"JANITOR_MAX_AGE":    defaultJanitorMaxAge.String(),
		"SHUTDOWN_TIMEOUT":   "10s",
	}
}

func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

// IsProduction reports whether APP_ENV names a production deployment.
func IsProduction() bool {
	switch strings.ToLower(AppEnv()) {
	case "production", "prod":
		return true
	}
	return false
}

// ── Data ─────────────────────────────────────────────────────────────────────

func DataDir() string { _ = Load(); return get("DATA_DIR", defaultDataDir) }

// MenuCategories is the ordered list of category documents scanned when a
// cart or order refers to a menu item id.
func MenuCategories() []string {
	_ = Load()
	var out []string
	for _, name := range strings.Split(get("MENU_CATEGORIES", defaultMenuFiles), ",") {
		name = strings.TrimSuffix(strings.TrimSpace(name), ".json")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", defaultUploadRoot) }
func StorageURL() string       { _ = Load(); return get("STORAGE_URL", defaultUploadURL) }

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Events ───────────────────────────────────────────────────────────────────

func EventsDriver() string {
	_ = Load()
	driver := strings.ToLower(get("EVENTS_DRIVER", defaultEventsDriver))
	switch driver {
	case "memory", "redis", "none":
		return driver
	default:
		return defaultEventsDriver
	}
}

func EventsRedisKey() string { _ = Load(); return get("EVENTS_REDIS_KEY", defaultEventsKey) }
func RedisAddr() string      { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string  { _ = Load(); return get("REDIS_PASSWORD", "") }

// ── Security ─────────────────────────────────────────────────────────────────

func AuthEnabled() bool { _ = Load(); return Bool("AUTH_ENABLED", false) }
func JWTSecret() string { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }

func RateLimitRPS() int   { return Int("RATE_LIMIT_RPS", 20) }
func RateLimitBurst() int { return Int("RATE_LIMIT_BURST", 40) }

func MaxBodyBytes() int64   { return int64(Int("MAX_BODY_BYTES", 4<<20)) }
func MaxUploadBytes() int64 { return int64(Int("MAX_UPLOAD_BYTES", 8<<20)) }

// ── Maintenance ──────────────────────────────────────────────────────────────

func JanitorSchedule() string       { _ = Load(); return get("JANITOR_SCHEDULE", defaultJanitorSpec) }
func JanitorMaxAge() time.Duration  { return Duration("JANITOR_MAX_AGE", defaultJanitorMaxAge) }
func ShutdownTimeout() time.Duration { return Duration("SHUTDOWN_TIMEOUT", 10*time.Second) }

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	for key := range loaded {
		if v, ok := os.LookupEnv(key); ok {
			loaded[key] = strings.TrimSpace(v)
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		switch v := val.(type) {
		case string:
			out[k] = strings.TrimSpace(v)
		case float64, bool:
			out[k] = fmt.Sprint(v)
		}
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		if !ok || key == "" {
			continue
		}
		out[key] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// Set overrides a key for the lifetime of the process. Intended for tests and
// CLI flags.
func Set(key, value string) {
	_ = Load()
	mu.Lock()
	values[strings.ToUpper(key)] = value
	mu.Unlock()
}

// Int reads key as an integer, returning fallback when unset or malformed.
func Int(key string, fallback int) int {
	n, err := strconv.Atoi(Get(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// Bool reads key as a boolean ("1", "true", "yes", "on").
func Bool(key string, fallback bool) bool {
	switch strings.ToLower(Get(key, "")) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

// Duration reads key with time.ParseDuration.
func Duration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(Get(key, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
