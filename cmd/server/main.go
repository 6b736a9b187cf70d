package main // Entry point package

import (
    "context"
    "log" // Logging library
    "os"
    "time" // Token TTL arithmetic

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework
    echomw "github.com/labstack/echo/v4/middleware"

    "github.com/sahasuyana/booking-api/internal/availability"
    "github.com/sahasuyana/booking-api/internal/config"
    "github.com/sahasuyana/booking-api/internal/database"
    "github.com/sahasuyana/booking-api/internal/email"
    "github.com/sahasuyana/booking-api/internal/handler"
    "github.com/sahasuyana/booking-api/internal/middleware"
    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/queue"
    "github.com/sahasuyana/booking-api/internal/repository"
    "github.com/sahasuyana/booking-api/internal/router"
    "github.com/sahasuyana/booking-api/internal/service"
    "github.com/sahasuyana/booking-api/internal/utils"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }

    // Redis is optional: a nil client disables caching and rate limiting.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable; response cache and rate limiting disabled")
    }

    emailCfg := email.LoadConfig()
    sender := email.NewClient(emailCfg)

    // The notification consumer runs for the life of the process and
    // reconnects on broker failure; it never takes the server down.
    go queue.StartNotificationConsumer(sender, emailCfg)

    bookingRepo := repository.NewBookingRepo(db)
    newsRepo := repository.NewNewsRepo(db)
    adminRepo := repository.NewAdminRepo(db)
    seedDefaultAdmin(adminRepo, cfg.BcryptCost)
    engine := availability.NewEngine(bookingRepo)
    publisher := service.NewQueuePublisher(queue.BrokerURL())

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(echomw.Logger())
    e.Use(echomw.CORS())
    e.Use(middleware.StoreGate(db))

    h := router.Handlers{
        Booking:      handler.NewBookingHandler(bookingRepo, publisher),
        Availability: handler.NewAvailabilityHandler(engine, bookingRepo),
        VendorStalls: handler.NewVendorStallHandler(engine, bookingRepo),
        News:         handler.NewNewsHandler(newsRepo),
        Admin:        handler.NewAdminHandler(adminRepo, cfg.JWTSecret, time.Duration(cfg.AccessTTLMin)*time.Minute, cfg.BcryptCost),
        Contact:      handler.NewContactHandler(sender, emailCfg),
        Health:       handler.NewHealthHandler(db),
    }
    router.Register(e, h, cfg.JWTSecret, rdb)

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}

// seedDefaultAdmin creates a super_admin on first boot so the dashboard
// is reachable before anyone can log in to create accounts. Credentials
// come from ADMIN_USERNAME / ADMIN_PASSWORD; without them the step is
// skipped and seeding is left to the operator.
func seedDefaultAdmin(repo *repository.AdminRepo, bcryptCost int) {
    username := os.Getenv("ADMIN_USERNAME")
    password := os.Getenv("ADMIN_PASSWORD")
    if username == "" || password == "" {
        return
    }
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    exists, err := repo.Any(ctx)
    if err != nil {
        log.Printf("admin seed: check failed: %v", err)
        return
    }
    if exists {
        return
    }
    hash, err := utils.HashPassword(password, bcryptCost)
    if err != nil {
        log.Printf("admin seed: hash failed: %v", err)
        return
    }
    a := &model.Admin{
        Username:     username,
        Email:        os.Getenv("ADMIN_EMAIL"),
        PasswordHash: hash,
        Role:         model.RoleSuperAdmin,
        Profile:      model.AdminProfile{FirstName: "Site", LastName: "Admin"},
        IsActive:     true,
    }
    if err := repo.Create(ctx, a); err != nil {
        log.Printf("admin seed: create failed: %v", err)
        return
    }
    log.Printf("admin seed: created default super_admin %q", username)
}
