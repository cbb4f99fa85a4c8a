package router

import (
	"fmt"
	"strings"

	"github.com/referral-ledger/internal/cache"
	"github.com/referral-ledger/internal/config"
	"github.com/referral-ledger/internal/http/handlers/ledger"
	"github.com/referral-ledger/internal/http/response"
	"github.com/referral-ledger/internal/logger"
	"github.com/referral-ledger/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	ledgerHandler := ledger.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "rl"
	}
	mutationRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:mutation", redisPrefix),
		WindowSeconds: cfg.Security.MutationRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.MutationRateLimit.MaxRequests,
	}
	mutationLimit := RateLimitMiddleware(cache.Client(), mutationRule, KeyByIdentity)

	// 中间件
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 健康检查不需要身份
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("")
	api.Use(IdentityMiddleware(c.IdentityService, cfg.Identity.Required))
	{
		// 发票
		api.GET("/invoices", ledgerHandler.ListInvoices)
		api.GET("/invoices/:id", ledgerHandler.GetInvoice)
		api.POST("/invoices", mutationLimit, ledgerHandler.CreateInvoice)
		api.PUT("/invoices/:id", mutationLimit, ledgerHandler.UpdateInvoice)
		api.PATCH("/invoices/:id/paid", mutationLimit, ledgerHandler.SetInvoicePaid)
		api.DELETE("/invoices/:id", mutationLimit, ledgerHandler.DeleteInvoice)

		// 客户名称
		api.GET("/client-names", ledgerHandler.ListClientNames)
		api.POST("/client-names", mutationLimit, ledgerHandler.RecordClientName)

		// 季度发放标记与佣金
		api.GET("/bonus-status", ledgerHandler.GetBonusStatusMap)
		api.POST("/bonus-status", mutationLimit, ledgerHandler.SetBonusStatus)
		api.POST("/bonus-status/cascade", mutationLimit, ledgerHandler.CascadeBonusStatus)
		api.GET("/bonus/quarterly", ledgerHandler.GetQuarterlyBonus)
		api.GET("/summary", ledgerHandler.GetSummary)

		// 归属策略（只读）
		api.GET("/authz/policies", func(ctx *gin.Context) {
			policies, err := c.AuthzService.Policies()
			if err != nil {
				logger.Errorw("authz_policies_list_failed", "error", err)
				response.Error(ctx, response.CodeInternal, "failed to list policies")
				return
			}
			response.Success(ctx, policies)
		})
	}

	r.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	return r
}
