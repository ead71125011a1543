package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SMSSender delivers a text message to an Indian mobile number.
type SMSSender interface {
	Send(ctx context.Context, phone, body string) error
}

// GatewayConfig holds the credentials of a Twilio-compatible SMS gateway.
type GatewayConfig struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	From       string
	Timeout    time.Duration
}

// GatewaySender posts messages to the gateway's Messages resource.
type GatewaySender struct {
	cfg        GatewayConfig
	httpClient *http.Client
}

// NewGatewaySender constructs a GatewaySender.
func NewGatewaySender(cfg GatewayConfig) (*GatewaySender, error) {
	if cfg.BaseURL == "" || cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil, errors.New("jobs: sms gateway url, account sid, auth token and sender are required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &GatewaySender{cfg: cfg, httpClient: &http.Client{Timeout: cfg.Timeout}}, nil
}

// Send implements SMSSender.
func (s *GatewaySender) Send(ctx context.Context, phone, body string) error {
	form := url.Values{}
	form.Set("To", "+91"+phone)
	form.Set("From", s.cfg.From)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.BaseURL, url.PathEscape(s.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("sms gateway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

// LogSender writes messages to the logger instead of delivering them.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a LogSender.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send implements SMSSender.
func (s *LogSender) Send(_ context.Context, phone, body string) error {
	s.logger.Info("sms (not delivered)", slog.String("phone", phone), slog.String("body", body))
	return nil
}
