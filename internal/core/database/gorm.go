package database

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-storefront/internal/core/logger"
)

var (
	ErrUnsupportedDriver = errors.New("unsupported db driver")
	ErrDisabled          = errors.New("db disabled")
)

type Opts struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
	Logger             *zap.Logger
}

func NewGorm(o Opts) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "":
		return nil, ErrDisabled
	case "postgres":
		dial = postgres.Open(o.DSN)
	case "mysql":
		dial = mysql.Open(NormalizeMySQLDSN(o.DSN, o.Username, o.Password))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, o.Driver)
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: newGormLogger(o.Logger, o.LogLevel)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)

	return db.Session(&gorm.Session{
		PrepareStmt:     true, // 预编译缓存
		CreateBatchSize: 200,
	}), nil
}

func newGormLogger(l *zap.Logger, level string) gormlogger.Interface {
	lvl := gormlogger.Warn
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}
	if l == nil {
		return gormlogger.Default.LogMode(lvl)
	}
	return gormlogger.New(logger.ToStdLogger(l.Named("gorm"), zapcore.InfoLevel), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  lvl,
		IgnoreRecordNotFoundError: true,
	})
}

// NormalizeMySQLDSN 把 jdbc:mysql:// 或 mysql:// 形式转成 go-sql-driver 的
// user:pass@tcp(host:port)/db?... ；本来就是驱动格式的原样返回
func NormalizeMySQLDSN(input, userOverride, passOverride string) string {
	in := strings.TrimPrefix(strings.TrimSpace(input), "jdbc:")
	if !strings.HasPrefix(in, "mysql://") {
		return in
	}
	u, err := url.Parse(in)
	if err != nil {
		return in // 交给驱动报错
	}

	user, pass := "", ""
	if u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}
	q := u.Query()
	for key, dst := range map[string]*string{"user": &user, "password": &pass} {
		if v := q.Get(key); v != "" {
			*dst = v
		}
		q.Del(key)
	}
	if userOverride != "" {
		user = userOverride
	}
	if passOverride != "" {
		pass = passOverride
	}

	// JDBC 参数 → go-sql-driver 参数
	if enc := q.Get("characterEncoding"); enc != "" && q.Get("charset") == "" {
		q.Set("charset", enc)
	}
	if tz := q.Get("serverTimezone"); tz != "" {
		q.Set("loc", tz)
	}
	if ssl := strings.ToLower(q.Get("useSSL")); ssl != "" {
		switch ssl {
		case "true", "1":
			q.Set("tls", "true")
		case "skip-verify", "preferred":
			q.Set("tls", ssl)
		default:
			q.Set("tls", "false")
		}
	}
	for _, k := range []string{"characterEncoding", "serverTimezone", "useSSL", "useUnicode", "zeroDateTimeBehavior"} {
		q.Del(k)
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "true")
	}
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}

	cred := user
	if pass != "" {
		cred += ":" + pass
	}
	if cred != "" {
		cred += "@"
	}
	dsn := fmt.Sprintf("%stcp(%s)/%s", cred, u.Host, strings.TrimPrefix(u.Path, "/"))
	if enc := q.Encode(); enc != "" {
		dsn += "?" + enc
	}
	return dsn
}

// MaskDSN 日志里隐藏口令
func MaskDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at <= 0 {
		return dsn
	}
	head := dsn[:at]
	if i := strings.LastIndex(head, "//"); i >= 0 {
		head = head[i+2:]
		if colon := strings.Index(head, ":"); colon >= 0 {
			return dsn[:strings.LastIndex(dsn[:at], "//")+2+colon+1] + "****" + dsn[at:]
		}
		return dsn
	}
	if colon := strings.Index(head, ":"); colon > 0 {
		return dsn[:colon+1] + "****" + dsn[at:]
	}
	return dsn
}
