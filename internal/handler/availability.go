package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/sahasuyana/booking-api/internal/availability"
    "github.com/sahasuyana/booking-api/internal/model"
)

// StallReader lists the stall ids of confirmed rentals.
type StallReader interface {
    BookedStallIDs(ctx context.Context) ([]string, error)
}

// AvailabilityHandler serves the public read side: conflict checks,
// calendar data and stall occupancy. All of it is computed by the
// availability engine over confirmed bookings only.
type AvailabilityHandler struct {
    Engine *availability.Engine
    Repo   StallReader
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(engine *availability.Engine, repo StallReader) *AvailabilityHandler {
    return &AvailabilityHandler{Engine: engine, Repo: repo}
}

// VenueAvailability handles GET /api/bookings/availability/:venue with
// startDate and an optional endDate. For the vendor-stall pool the
// answer is a capacity check; dates are ignored.
func (h *AvailabilityHandler) VenueAvailability(c echo.Context) error {
    venue := model.Venue(c.Param("venue"))
    startStr := c.QueryParam("startDate")
    if startStr == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": []string{"startDate"},
        })
    }
    start, err := model.ParseDate(startStr)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid start date, expected YYYY-MM-DD"})
    }
    end := start
    if endStr := c.QueryParam("endDate"); endStr != "" {
        end, err = model.ParseDate(endStr)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid end date, expected YYYY-MM-DD"})
        }
    }

    ctx, cancel := reqCtx(c)
    defer cancel()
    res, err := h.Engine.VenueAvailability(ctx, venue, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to check availability"})
    }
    if res.IsStallPool {
        return c.JSON(http.StatusOK, echo.Map{
            "available":       res.Available,
            "totalStalls":     res.TotalStalls,
            "rentedStalls":    res.RentedStalls,
            "availableStalls": res.AvailableStalls,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{
        "available": res.Available,
        "conflicts": res.Conflicts,
    })
}

// UnavailableDates handles GET /api/bookings/unavailable-dates/:venue
// with month and year parameters. The stall pool never blocks dates, so
// it always yields an empty list.
func (h *AvailabilityHandler) UnavailableDates(c echo.Context) error {
    venue := model.Venue(c.Param("venue"))
    month, merr := strconv.Atoi(c.QueryParam("month"))
    year, yerr := strconv.Atoi(c.QueryParam("year"))
    if merr != nil || yerr != nil || month < 1 || month > 12 {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid month or year"})
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    dates, err := h.Engine.UnavailableDates(ctx, venue, time.Month(month), year)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch unavailable dates"})
    }
    return c.JSON(http.StatusOK, echo.Map{"unavailableDates": dates})
}

// StallOccupancy handles GET /api/bookings/vendor-stalls/availability/:date.
// The date parameter exists for URL compatibility with the calendar
// views but has no meaning for stalls: occupancy is date-free.
func (h *AvailabilityHandler) StallOccupancy(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    occ, err := h.Engine.StallOccupancy(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch stall availability"})
    }
    return c.JSON(http.StatusOK, occ)
}

// BookedStalls handles GET /api/bookings/vendor-stalls/booked and
// returns the stall ids of all confirmed rentals.
func (h *AvailabilityHandler) BookedStalls(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()
    ids, err := h.Repo.BookedStallIDs(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to fetch booked stalls"})
    }
    return c.JSON(http.StatusOK, echo.Map{"bookedStalls": ids})
}
