package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing
    "github.com/redis/go-redis/v9"

    "github.com/sahasuyana/booking-api/internal/config"
    "github.com/sahasuyana/booking-api/internal/handler"    // handlers implement the endpoint logic
    "github.com/sahasuyana/booking-api/internal/middleware" // JWT, role, cache and rate-limit middleware
)

// Handlers bundles every handler the router mounts. Construction and
// wiring happen in main; the router only decides paths and guards.
type Handlers struct {
    Booking      *handler.BookingHandler
    Availability *handler.AvailabilityHandler
    VendorStalls *handler.VendorStallHandler
    News         *handler.NewsHandler
    Admin        *handler.AdminHandler
    Contact      *handler.ContactHandler
    Health       *handler.HealthHandler
}

// Register mounts the full API surface under /api. Public reads and the
// booking form stay open; everything admin-prefixed plus the mutating
// booking and news endpoints require a bearer token. rdb may be nil, in
// which case caching and rate limiting silently disable themselves.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
    api := e.Group("/api")
    api.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    // Health bypasses the store gate (applied in main) and answers even
    // while the database is down.
    api.GET("/health", h.Health.Check)

    auth := middleware.AdminAuth(jwtSecret)
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    // Bookings. Availability reads are the hottest endpoints and go
    // through the response cache.
    b := api.Group("/bookings")
    b.GET("", h.Booking.List)
    b.GET("/availability/:venue", h.Availability.VenueAvailability, cache)
    b.GET("/unavailable-dates/:venue", h.Availability.UnavailableDates, cache)
    b.GET("/vendor-stalls/availability/:date", h.Availability.StallOccupancy, cache)
    b.GET("/vendor-stalls/booked", h.Availability.BookedStalls, cache)
    b.GET("/stats/overview", h.Booking.Stats, auth)
    b.GET("/:id", h.Booking.Get)
    b.POST("", h.Booking.Create)
    b.POST("/admin-block", h.Booking.AdminBlock, auth)
    b.PATCH("/:id/status", h.Booking.UpdateStatus, auth)
    b.PUT("/:id", h.Booking.Update, auth)
    b.DELETE("/:id", h.Booking.Delete, auth)
    b.GET("/admin/vendor-stalls", h.VendorStalls.Layout, auth)
    b.POST("/admin/vendor-stalls/book", h.VendorStalls.BookStall, auth)

    // News. Reads are public, mutations require a token.
    n := api.Group("/news")
    n.GET("", h.News.List)
    n.GET("/published", h.News.Published, cache)
    n.GET("/stats/overview", h.News.Stats, auth)
    n.GET("/:id", h.News.Get)
    n.POST("", h.News.Create, auth)
    n.PUT("/:id", h.News.Update, auth)
    n.PATCH("/:id/status", h.News.UpdateStatus, auth)
    n.DELETE("/:id", h.News.Delete, auth)

    // Admin accounts. Account administration is additionally gated to
    // the two management roles; moderators only get their own profile.
    a := api.Group("/admin")
    a.POST("/login", h.Admin.Login)
    a.GET("/verify", h.Admin.Verify, auth)
    a.GET("/profile", h.Admin.Profile, auth)
    a.PUT("/profile", h.Admin.UpdateProfile, auth)
    a.PUT("/change-password", h.Admin.ChangePassword, auth)
    manage := middleware.RequireRole("super_admin", "admin")
    a.GET("/admins", h.Admin.ListAdmins, auth, manage)
    a.POST("/admins", h.Admin.CreateAdmin, auth, manage)
    a.DELETE("/admins/:id", h.Admin.DeleteAdmin, auth, manage)

    // Contact form.
    api.POST("/contact", h.Contact.Submit)
}
