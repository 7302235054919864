package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App        AppConfig
	HTTP       HTTPConfig
	JWT        JWTConfig
	Data       DataConfig
	Storage    StorageConfig
	Store      StoreConfig
	Discount   DiscountConfig
	Validation ValidationConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	DataDir     string // carpeta con products.json y users.json servidos en /data
	DocsEnabled bool
	DocsPath    string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// DataConfig fuentes de datos estáticas consumidas por el ApiService.
type DataConfig struct {
	BaseURL        string // ej. http://localhost:8080
	ProductsPath   string
	UsersPath      string
	CacheTTL       time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	Timeout        time.Duration
}

// ProductsURL URL absoluta del JSON de productos.
func (c DataConfig) ProductsURL() string { return joinURL(c.BaseURL, c.ProductsPath) }

// UsersURL URL absoluta del JSON de usuarios.
func (c DataConfig) UsersURL() string { return joinURL(c.BaseURL, c.UsersPath) }

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// Drivers de almacenamiento clave-valor soportados.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// StorageConfig almacenamiento local clave-valor (equivalente a localStorage).
type StorageConfig struct {
	Driver        string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	Postgres      DBConfig
	PostgresTable string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// StoreConfig límites del contenedor de estado y tiempos simulados.
type StoreConfig struct {
	HistoryLimit  int
	ErrorLogLimit int
	LogLimit      int
	LogSinkLevel  string
	PaymentDelay  time.Duration
	RedirectDelay time.Duration

	// AutosaveDelay espera tras la última acción antes de guardar el estado; 0 lo desactiva.
	AutosaveDelay time.Duration
	// NetworkNoticeWindow ventana mínima entre avisos de error de red; 0 no limita.
	NetworkNoticeWindow time.Duration
}

// DiscountConfig política de descuentos del carrito.
type DiscountConfig struct {
	Registered  decimal.Decimal
	Duoc        decimal.Decimal
	Cap         decimal.Decimal
	DuocDomains []string
}

// ValidationConfig parámetros de las reglas de validación.
type ValidationConfig struct {
	EmailDomains   []string
	PasswordMin    int
	PasswordMax    int
	MinAge         int
	NameMax        int
	LastNameMax    int
	EmailMax       int
	AddressMax     int
	CommentMax     int
	ProductNameMax int
	DescriptionMax int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, STORAGE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración a partir de una instancia de Viper ya cargada.
func FromViper(v *viper.Viper) (*Config, error) {
	env := getString(v, "APP_ENV", "development")
	cfg := &Config{
		App: AppConfig{
			Env:      env,
			Name:     getString(v, "APP_NAME", "levelup-gamer"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			DataDir:     getString(v, "HTTP_DATA_DIR", "./data"),
			DocsEnabled: getBool(v, "HTTP_DOCS_ENABLED", true),
			DocsPath:    getString(v, "HTTP_DOCS_PATH", "./docs/swagger.json"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "levelup-gamer"),
		},
		Data: DataConfig{
			BaseURL:        getString(v, "DATA_BASE_URL", "http://localhost:8080"),
			ProductsPath:   getString(v, "DATA_PRODUCTS_PATH", "/data/products.json"),
			UsersPath:      getString(v, "DATA_USERS_PATH", "/data/users.json"),
			CacheTTL:       getDuration(v, "DATA_CACHE_TTL", 5*time.Minute),
			MaxRetries:     getInt(v, "DATA_MAX_RETRIES", 3),
			RetryBaseDelay: getDuration(v, "DATA_RETRY_BASE_DELAY", time.Second),
			Timeout:        getDuration(v, "DATA_TIMEOUT", 10*time.Second),
		},
		Storage: StorageConfig{
			Driver:        strings.ToLower(getString(v, "STORAGE_DRIVER", DriverSQLite)),
			SQLitePath:    getString(v, "STORAGE_SQLITE_PATH", "levelup.db"),
			RedisAddr:     getString(v, "STORAGE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getString(v, "STORAGE_REDIS_PASSWORD", ""),
			RedisDB:       getInt(v, "STORAGE_REDIS_DB", 0),
			RedisPrefix:   getString(v, "STORAGE_REDIS_PREFIX", "levelup:"),
			Postgres: DBConfig{
				DatabaseURL: getString(v, "DATABASE_URL", ""),
				Host:        getString(v, "DB_HOST", "localhost"),
				Port:        getInt(v, "DB_PORT", 5432),
				User:        getString(v, "DB_USER", "postgres"),
				Password:    getString(v, "DB_PASSWORD", ""),
				DBName:      getString(v, "DB_NAME", "levelup"),
				SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			},
			PostgresTable: getString(v, "STORAGE_POSTGRES_TABLE", "levelup_kv"),
		},
		Store: StoreConfig{
			HistoryLimit:        getInt(v, "STORE_HISTORY_LIMIT", 50),
			ErrorLogLimit:       getInt(v, "STORE_ERROR_LOG_LIMIT", 50),
			LogLimit:            getInt(v, "STORE_LOG_LIMIT", 100),
			LogSinkLevel:        getString(v, "STORE_LOG_SINK_LEVEL", "warn"),
			PaymentDelay:        getDuration(v, "STORE_PAYMENT_DELAY", 3*time.Second),
			RedirectDelay:       getDuration(v, "STORE_REDIRECT_DELAY", 2*time.Second),
			AutosaveDelay:       getDuration(v, "STORE_AUTOSAVE_DELAY", 500*time.Millisecond),
			NetworkNoticeWindow: getDuration(v, "STORE_NETWORK_NOTICE_WINDOW", 5*time.Second),
		},
		Discount: DiscountConfig{
			Registered:  getDecimal(v, "DISCOUNT_REGISTERED", decimal.RequireFromString("0.10")),
			Duoc:        getDecimal(v, "DISCOUNT_DUOC", decimal.RequireFromString("0.20")),
			Cap:         getDecimal(v, "DISCOUNT_CAP", decimal.RequireFromString("0.50")),
			DuocDomains: getList(v, "DISCOUNT_DUOC_DOMAINS", []string{"@duoc.cl", "@profesor.duoc.cl"}),
		},
		Validation: ValidationConfig{
			EmailDomains:   getList(v, "VALIDATION_EMAIL_DOMAINS", []string{"@duoc.cl", "@profesor.duoc.cl", "@gmail.com"}),
			PasswordMin:    getInt(v, "VALIDATION_PASSWORD_MIN", 4),
			PasswordMax:    getInt(v, "VALIDATION_PASSWORD_MAX", 10),
			MinAge:         getInt(v, "VALIDATION_MIN_AGE", 18),
			NameMax:        getInt(v, "VALIDATION_NAME_MAX", 50),
			LastNameMax:    getInt(v, "VALIDATION_LASTNAME_MAX", 100),
			EmailMax:       getInt(v, "VALIDATION_EMAIL_MAX", 100),
			AddressMax:     getInt(v, "VALIDATION_ADDRESS_MAX", 300),
			CommentMax:     getInt(v, "VALIDATION_COMMENT_MAX", 500),
			ProductNameMax: getInt(v, "VALIDATION_PRODUCT_NAME_MAX", 100),
			DescriptionMax: getInt(v, "VALIDATION_DESCRIPTION_MAX", 500),
		},
	}

	if cfg.JWT.Secret == "" && env == "development" {
		cfg.JWT.Secret = "levelup-dev-secret"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate revisa invariantes entre campos.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET es obligatorio fuera de development"))
	}
	if c.Validation.PasswordMin <= 0 || c.Validation.PasswordMin > c.Validation.PasswordMax {
		errs = append(errs, fmt.Errorf("rango de contraseña inválido [%d,%d]",
			c.Validation.PasswordMin, c.Validation.PasswordMax))
	}
	one := decimal.NewFromInt(1)
	for name, rate := range map[string]decimal.Decimal{
		"DISCOUNT_REGISTERED": c.Discount.Registered,
		"DISCOUNT_DUOC":       c.Discount.Duoc,
		"DISCOUNT_CAP":        c.Discount.Cap,
	} {
		if rate.IsNegative() || rate.GreaterThan(one) {
			errs = append(errs, fmt.Errorf("%s debe estar entre 0 y 1", name))
		}
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER desconocido %q", c.Storage.Driver))
	}
	if c.Store.HistoryLimit <= 0 || c.Store.ErrorLogLimit <= 0 || c.Store.LogLimit <= 0 {
		errs = append(errs, errors.New("los límites del store deben ser positivos"))
	}
	if c.Data.MaxRetries < 0 {
		errs = append(errs, errors.New("DATA_MAX_RETRIES no puede ser negativo"))
	}
	return errors.Join(errs...)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}

// getDuration acepta "5m", "1500ms" o un entero en milisegundos.
func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if !v.IsSet(key) {
		return def
	}
	s := strings.TrimSpace(v.GetString(key))
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func getDecimal(v *viper.Viper, key string, def decimal.Decimal) decimal.Decimal {
	if !v.IsSet(key) {
		return def
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return d
}

// getList lee una lista separada por comas.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, p := range strings.Split(v.GetString(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
