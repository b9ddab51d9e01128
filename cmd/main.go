package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/database"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/auth"
	"github.com/stadtportal/city-portal-backend/internal/event"
	"github.com/stadtportal/city-portal-backend/internal/imprint"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/page"
	"github.com/stadtportal/city-portal-backend/internal/poi"
	"github.com/stadtportal/city-portal-backend/internal/pushnotification"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/routes"
	"github.com/stadtportal/city-portal-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Printf("⚠️ Redis init failed: %v", err)
		log.Println("ℹ️ Continuing without Redis (public API responses will not be cached)")
	}

	// Init Kafka
	utils.InitializeKafka()

	// 🔥 Init Firebase - SINGLE INITIALIZATION POINT
	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without Firebase (push notifications will be disabled)")
	} else if utils.IsFCMEnabled() {
		log.Println("✅ Firebase and FCM initialized successfully")
	} else {
		log.Println("⚠️ Firebase initialized but FCM client unavailable")
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&language.Language{},
		&language.LanguageTreeNode{},
		&region.Region{},
		&event.Event{},
		&event.RecurrenceRule{},
		&event.EventTranslation{},
		&poi.POI{},
		&poi.POITranslation{},
		&page.Page{},
		&page.PageTranslation{},
		&imprint.Imprint{},
		&imprint.ImprintTranslation{},
		&pushnotification.PushNotification{},
		&pushnotification.PushNotificationTranslation{},
		&pushnotification.FCMDeviceToken{},
		&auditlog.AuditLog{},
		&auth.UserRole{},
		&auth.User{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed roles & initial admin
	if err := auth.SeedUserRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}
	if err := auth.SeedAdminUser(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed admin: %v", err))
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", cfg.WebappURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	pushSvc := routes.Setup(router, cfg)

	// Background workers: kafka consumer for queued sends, cron for
	// scheduled notifications that come due.
	pushSvc.StartKafkaConsumer(context.Background())
	scheduler := pushSvc.StartScheduler()
	defer scheduler.Stop()

	log.Printf("🚀 Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
