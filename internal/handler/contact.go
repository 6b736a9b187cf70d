package handler

import (
    "net/http"
    "regexp"

    "github.com/labstack/echo/v4"

    "github.com/sahasuyana/booking-api/internal/email"
)

// emailPattern is a permissive shape check; real validation happens when
// the mail bounces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactHandler forwards contact-form submissions to the admin inbox
// and confirms receipt to the sender. Unlike booking notifications this
// goes straight through the mail sender: the admin copy failing should
// fail the request so the visitor knows their message was not delivered.
type ContactHandler struct {
    Sender email.Sender
    Cfg    email.Config
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(sender email.Sender, cfg email.Config) *ContactHandler {
    return &ContactHandler{Sender: sender, Cfg: cfg}
}

// Submit handles POST /api/contact.
func (h *ContactHandler) Submit(c echo.Context) error {
    var req struct {
        Name    string `json:"name"`
        Email   string `json:"email"`
        Subject string `json:"subject"`
        Message string `json:"message"`
    }
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid request body"})
    }
    missing := []string{}
    if req.Name == "" {
        missing = append(missing, "name")
    }
    if req.Email == "" {
        missing = append(missing, "email")
    }
    if req.Subject == "" {
        missing = append(missing, "subject")
    }
    if req.Message == "" {
        missing = append(missing, "message")
    }
    if len(missing) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{
            "message":  "Missing required fields",
            "required": missing,
        })
    }
    if !emailPattern.MatchString(req.Email) {
        return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid email address"})
    }

    ctx := c.Request().Context()
    if err := h.Sender.Send(ctx, email.ContactAdminCopy(req.Name, req.Email, req.Subject, req.Message, h.Cfg.AdminEmail)); err != nil {
        c.Logger().Errorf("contact: admin copy failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Failed to send message. Please try again later."})
    }
    // The receipt back to the visitor is best-effort.
    if err := h.Sender.Send(ctx, email.ContactReceipt(req.Name, req.Email, req.Subject)); err != nil {
        c.Logger().Errorf("contact: receipt to %s failed: %v", req.Email, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"message": "Message sent successfully"})
}
