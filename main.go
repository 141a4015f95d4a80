package main

import (
	"os"
	"time"

	"streaming-app/config"
	"streaming-app/database"
	"streaming-app/internal/api/payments"
	routes "streaming-app/internal/app/http"
	"streaming-app/internal/domain/billing"
	"streaming-app/internal/domain/entitlement"
	"streaming-app/internal/domain/payment"
	"streaming-app/internal/infra/izipay"
	"streaming-app/internal/infra/locks"
	"streaming-app/internal/infra/reconcile"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	config.LoadEnv()
	database.InitDB()

	gateway := izipay.NewClient(izipay.Config{
		BaseURL:      config.IZIPAY_API_URL,
		MerchantCode: config.IZIPAY_MERCHANT_CODE,
		PublicKey:    config.IZIPAY_PUBLIC_KEY,
		Logo:         os.Getenv("FORM_LOGO_URL"),
	})

	recorder := entitlement.NewSettlementRecorder(
		entitlement.NewGormStore(database.DB),
		billing.NewGormPaymentLog(database.DB),
		config.ORDER_CURRENCY,
	)

	var locker payment.AttemptLocker = payment.NewMemoryLocker()
	if config.REDIS_ADDR != "" {
		locker = locks.NewRedisLocker(config.REDIS_ADDR)
	}

	reconciler := reconcile.NewNotifier(database.DB, config.RABBITMQ_URL)

	payments.Init(
		payment.NewOrchestrator(gateway, recorder, locker, reconciler, config.ORDER_CURRENCY),
		gateway,
	)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("CORS_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r)

	r.Run(":" + config.PORT)
}
