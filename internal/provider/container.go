package provider

import (
	"fmt"
	"time"

	"github.com/referral-ledger/internal/authz"
	"github.com/referral-ledger/internal/cache"
	"github.com/referral-ledger/internal/config"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/models"
	"github.com/referral-ledger/internal/repository"
	"github.com/referral-ledger/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	DB     *gorm.DB

	// Repositories
	InvoiceRepo     repository.InvoiceRepository
	BonusStatusRepo repository.BonusStatusRepository
	ClientNameRepo  repository.ClientNameRepository

	// Services
	AuthzService      *authz.Service
	InvoiceService    *service.InvoiceService
	BonusService      *service.BonusService
	ClientNameService *service.ClientNameService
	IdentityService   *service.IdentityService
	LedgerService     *service.LedgerService
}

// NewContainer 使用全局数据库连接初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	// 初始化缓存，不可用时降级为直读
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库连接初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database is not initialized")
	}
	c := &Container{Config: cfg, DB: db}
	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	c.InvoiceRepo = repository.NewInvoiceRepository(c.DB)
	c.BonusStatusRepo = repository.NewBonusStatusRepository(c.DB)
	c.ClientNameRepo = repository.NewClientNameRepository(c.DB)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return fmt.Errorf("init authz service: %w", err)
	}
	if err := authzService.BootstrapOwnershipPolicies(); err != nil {
		logger.Errorw("provider_bootstrap_authz_policies_failed", "error", err)
		return fmt.Errorf("bootstrap authz policies: %w", err)
	}
	c.AuthzService = authzService

	cacheTTL := time.Duration(c.Config.Cache.TTLSeconds) * time.Second
	c.InvoiceService = service.NewInvoiceService(c.InvoiceRepo, c.AuthzService)
	c.BonusService = service.NewBonusService(c.BonusStatusRepo, c.AuthzService, cacheTTL)
	c.ClientNameService = service.NewClientNameService(c.ClientNameRepo, cacheTTL)
	c.IdentityService = service.NewIdentityService(c.Config)
	c.LedgerService = service.NewLedgerService(c.InvoiceService, c.BonusService, c.ClientNameService, c.AuthzService)
	return nil
}
