package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"estate-backend/internal/verification"
)

// Fast2SMSSender delivers OTP codes via the Fast2SMS bulk API (India).
type Fast2SMSSender struct {
	APIKey string
	client *http.Client
}

func NewFast2SMSSender(apiKey string) *Fast2SMSSender {
	return &Fast2SMSSender{
		APIKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *Fast2SMSSender) SendCode(_ verification.Channel, destination, code string) error {
	message := fmt.Sprintf("Your property portal OTP is %s. Valid for 10 minutes. Do not share this code with anyone.", code)

	apiURL := fmt.Sprintf(
		"https://www.fast2sms.com/dev/bulkV2?authorization=%s&route=q&message=%s&language=english&flash=0&numbers=%s",
		url.QueryEscape(s.APIKey),
		url.QueryEscape(message),
		url.QueryEscape(destination),
	)

	resp, err := s.client.Get(apiURL)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("SMS API error (status %d): %s", resp.StatusCode, string(body))
	}
	if strings.Contains(string(body), `"return":false`) {
		return fmt.Errorf("SMS API error: %s", string(body))
	}

	return nil
}
