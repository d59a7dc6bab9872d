package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr          string `mapstructure:"addr"`
	Password      string `mapstructure:"password"`
	DB            int    `mapstructure:"db"`
	Prefix        string `mapstructure:"prefix"`
	CatalogTTLSec int    `mapstructure:"catalog_ttl_sec"`
}

// DB 为空 Driver 时会话只保存在内存
type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type BackendPaths struct {
	Products   string `mapstructure:"products"`
	Categories string `mapstructure:"categories"`
	Login      string `mapstructure:"login"`
	Register   string `mapstructure:"register"`
	Orders     string `mapstructure:"orders"`
}

// Backend 远端商城 REST 服务
type Backend struct {
	BaseURL    string       `mapstructure:"base_url"`
	TimeoutSec int          `mapstructure:"timeout_sec"`
	Paths      BackendPaths `mapstructure:"paths"`
}

type Limits struct {
	RPS             float64
	Burst           int
	MaxInFlight     int64
	MaxBodyBytes    int64
	RequestTimeoutS int
}

// Session 内存会话的空闲回收；回收后仍可从仓储重建
type Session struct {
	IdleTTLMin       int `mapstructure:"idle_ttl_min"`
	SweepIntervalSec int `mapstructure:"sweep_interval_sec"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis   `mapstructure:"redis"`
	Backend Backend `mapstructure:"backend"`
	Session Session `mapstructure:"session"`
	Limits  Limits
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSec) * time.Second
}

func (c *Config) CatalogTTL() time.Duration {
	return time.Duration(c.Redis.CatalogTTLSec) * time.Second
}

func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.Session.IdleTTLMin) * time.Minute
}

func (c *Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.Session.SweepIntervalSec) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "storefront")
	v.SetDefault("jwt.accesstokenttlmin", 7*24*60)
	v.SetDefault("redis.prefix", "storefront:")
	v.SetDefault("redis.catalog_ttl_sec", 60)
	v.SetDefault("backend.timeout_sec", 15)
	v.SetDefault("session.idle_ttl_min", 30)
	v.SetDefault("session.sweep_interval_sec", 60)
	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.maxinflight", 300)
	v.SetDefault("limits.maxbodybytes", 1<<20)
	v.SetDefault("limits.requesttimeouts", 20)
}

// LoadE 读取 yaml，APP_ 前缀的环境变量可覆盖（如 APP_BACKEND_BASE_URL）
func LoadE(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := LoadE(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}
