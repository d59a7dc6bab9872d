// admin 为管理端接口签发 admin 角色令牌
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-storefront/internal/core/auth"
	"go-storefront/internal/core/config"
	"go-storefront/internal/core/logger"
)

func main() {
	var (
		cfgPath = flag.String("config", os.Getenv("CONFIG_PATH"), "config file")
		subject = flag.String("sub", "ops", "operator name written into the token")
		ttl     = flag.Duration("ttl", time.Hour, "token lifetime")
	)
	flag.Parse()

	_ = godotenv.Load()
	log, cleanup := logger.New("info", false)
	defer cleanup()

	cfg, err := config.LoadE(*cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}
	tok, err := issueAdminToken(cfg, *subject, *ttl)
	if err != nil {
		log.Fatal("issue token", zap.Error(err))
	}
	log.Info("admin token issued",
		zap.String("sub", *subject),
		zap.Duration("ttl", *ttl),
		zap.String("admin_v1", fmt.Sprintf("http://%s:%d/admin/v1", cfg.App.Admin.Host, cfg.App.Admin.Port)),
	)
	fmt.Println(tok)
}

func issueAdminToken(cfg *config.Config, subject string, ttl time.Duration) (string, error) {
	j := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: ttl}
	return j.Issue(subject, auth.RoleAdmin)
}
