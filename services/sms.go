package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bitemebuddy/config"
)

// SMSSender delivers a text message to a phone number
type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// NewSMSSender returns a Twilio sender, or a logging no-op when credentials are missing
func NewSMSSender(cfg config.TwilioConfig) SMSSender {
	if !cfg.Enabled() {
		log.Println("SMS disabled: Twilio credentials not configured")
		return LogSMS{}
	}
	return NewTwilioSMS(cfg)
}

type TwilioSMS struct {
	baseURL    string
	accountSID string
	authToken  string
	from       string
	client     *http.Client
}

func NewTwilioSMS(cfg config.TwilioConfig) *TwilioSMS {
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.twilio.com"
	}
	return &TwilioSMS{
		baseURL:    strings.TrimRight(base, "/"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *TwilioSMS) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.from)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, url.PathEscape(s.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

// LogSMS records that a message would have been sent
type LogSMS struct{}

func (LogSMS) Send(_ context.Context, to, body string) error {
	log.Printf("sms: disabled, dropping %d-byte message to %s", len(body), to)
	return nil
}
