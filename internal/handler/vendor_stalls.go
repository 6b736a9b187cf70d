package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/sahasuyana/booking-api/internal/availability"
    "github.com/sahasuyana/booking-api/internal/model"
    "github.com/sahasuyana/booking-api/internal/repository"
)

// StallBooker is the write surface the direct stall booking needs.
type StallBooker interface {
    StallConfirmed(ctx context.Context, stallID string) (bool, error)
    Create(ctx context.Context, b *model.Booking) error
}

// VendorStallHandler serves the authenticated stall management surface:
// the full block layout with per-stall customer details, and direct
// stall booking from the dashboard.
type VendorStallHandler struct {
    Engine *availability.Engine
    Repo   StallBooker
}

// NewVendorStallHandler constructs a VendorStallHandler.
func NewVendorStallHandler(engine *availability.Engine, repo StallBooker) *VendorStallHandler {
    return &VendorStallHandler{Engine: engine, Repo: repo}
}

// Layout handles GET /api/bookings/admin/vendor-stalls and returns the
// fixed A..F grid with each stall's status and, when booked, a summary
// of the occupying customer.
func (h *VendorStallHandler) Layout(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    layout, err := h.Engine.StallLayout(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch stall layout"})
    }
    return c.JSON(http.StatusOK, layout)
}

// bookStallRequest is the dashboard's direct stall booking payload.
type bookStallRequest struct {
    StallID  string         `json:"stallId"`
    Customer model.Customer `json:"customer"`
    Notes    string         `json:"notes"`
}

// BookStall handles POST /api/bookings/admin/vendor-stalls/book. The
// booking is seeded with the stall-rental defaults and created directly
// as confirmed, so it occupies the stall immediately.
func (h *VendorStallHandler) BookStall(c echo.Context) error {
    var req bookStallRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    missing := []string{}
    if req.StallID == "" {
        missing = append(missing, "stallId")
    }
    if !req.Customer.Complete() {
        missing = append(missing, "customer")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    stall, err := resolveStall(req.StallID)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Unknown stall id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    taken, err := h.Repo.StallConfirmed(ctx, stall.StallID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to book stall"})
    }
    if taken {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":     "Stall " + stall.StallID + " is already booked",
            "bookedStall": stall.StallID,
        })
    }

    notes := req.Notes
    if notes == "" {
        notes = "Admin booking for stall " + stall.StallID
    }
    b := &model.Booking{
        Venue:       model.VenueVendorStalls,
        EventType:   "vendor stall rental",
        EventDate:   model.Today(),
        Duration:    1,
        Customer:    req.Customer,
        Guests:      1,
        TotalAmount: model.Price(model.VenueVendorStalls, 1),
        Status:      model.StatusConfirmed,
        Notes:       notes,
        StallInfo:   stall,
    }
    if err := h.Repo.Create(ctx, b); err != nil {
        if errors.Is(err, repository.ErrStallTaken) {
            return c.JSON(http.StatusBadRequest, echo.Map{
                "message":     "Stall " + stall.StallID + " is already booked",
                "bookedStall": stall.StallID,
            })
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to book stall"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "message": "Stall booked successfully",
        "booking": b,
    })
}
