// Package email delivers notification mail through the SendGrid HTTP
// API. The booking flow never calls into it directly; the queue
// consumer and the contact endpoint are its only callers.
package email

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "os"
    "time"
)

// Message is one email to deliver.
type Message struct {
    To          string
    ToName      string
    ReplyTo     string
    Subject     string
    HTMLContent string
}

// Sender delivers messages. Tests substitute a recording fake; the
// consumer treats any implementation as best-effort.
type Sender interface {
    Send(ctx context.Context, msg *Message) error
}

// Config holds SendGrid credentials and sender identity, read from the
// environment (SENDGRID_API_KEY, EMAIL_FROM, EMAIL_FROM_NAME,
// ADMIN_EMAIL).
type Config struct {
    APIKey     string
    FromEmail  string
    FromName   string
    AdminEmail string
}

// LoadConfig reads the email settings. An empty API key is allowed; the
// client then logs-and-drops instead of calling out, so local setups
// work without credentials.
func LoadConfig() Config {
    cfg := Config{
        APIKey:     os.Getenv("SENDGRID_API_KEY"),
        FromEmail:  os.Getenv("EMAIL_FROM"),
        FromName:   os.Getenv("EMAIL_FROM_NAME"),
        AdminEmail: os.Getenv("ADMIN_EMAIL"),
    }
    if cfg.FromEmail == "" {
        cfg.FromEmail = "noreply@sahasuyana.lk"
    }
    if cfg.FromName == "" {
        cfg.FromName = "Sahas Uyana"
    }
    if cfg.AdminEmail == "" {
        cfg.AdminEmail = "sahasuyana1@gmail.com"
    }
    return cfg
}

// Client sends messages via the SendGrid v3 mail-send endpoint.
type Client struct {
    cfg        Config
    httpClient *http.Client
}

// NewClient returns a SendGrid-backed Sender.
func NewClient(cfg Config) *Client {
    return &Client{
        cfg:        cfg,
        httpClient: &http.Client{Timeout: 10 * time.Second},
    }
}

type sgEmail struct {
    Email string `json:"email"`
    Name  string `json:"name,omitempty"`
}

type sgPersonalization struct {
    To []sgEmail `json:"to"`
}

type sgContent struct {
    Type  string `json:"type"`
    Value string `json:"value"`
}

type sgRequest struct {
    Personalizations []sgPersonalization `json:"personalizations"`
    From             sgEmail             `json:"from"`
    ReplyTo          *sgEmail            `json:"reply_to,omitempty"`
    Subject          string              `json:"subject"`
    Content          []sgContent         `json:"content"`
}

// Send posts the message to SendGrid. Without an API key the message is
// dropped silently so development environments do not need credentials.
func (c *Client) Send(ctx context.Context, msg *Message) error {
    if c.cfg.APIKey == "" {
        return nil
    }
    req := sgRequest{
        Personalizations: []sgPersonalization{{To: []sgEmail{{Email: msg.To, Name: msg.ToName}}}},
        From:             sgEmail{Email: c.cfg.FromEmail, Name: c.cfg.FromName},
        Subject:          msg.Subject,
        Content:          []sgContent{{Type: "text/html", Value: msg.HTMLContent}},
    }
    if msg.ReplyTo != "" {
        req.ReplyTo = &sgEmail{Email: msg.ReplyTo}
    }
    body, err := json.Marshal(req)
    if err != nil {
        return fmt.Errorf("marshal sendgrid request: %w", err)
    }
    httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
        "https://api.sendgrid.com/v3/mail/send", bytes.NewReader(body))
    if err != nil {
        return fmt.Errorf("build sendgrid request: %w", err)
    }
    httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
    httpReq.Header.Set("Content-Type", "application/json")
    resp, err := c.httpClient.Do(httpReq)
    if err != nil {
        return fmt.Errorf("sendgrid request: %w", err)
    }
    defer resp.Body.Close()
    if resp.StatusCode >= 300 {
        return fmt.Errorf("sendgrid responded %d", resp.StatusCode)
    }
    return nil
}
