package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	notificationerrors "go-timesheet/internal/notification/errors"
)

// WhatsAppConfig wires the message gateway.
type WhatsAppConfig struct {
	BaseURL string
	Token   string
}

// WhatsAppClient talks to the message gateway. Delivery is best
// effort everywhere it is used: callers log failures and move on, a
// gateway outage must never fail a timesheet operation.
type WhatsAppClient struct {
	cfg    WhatsAppConfig
	client *http.Client
	logger *zap.Logger
}

func NewWhatsAppClient(cfg WhatsAppConfig, logger *zap.Logger) *WhatsAppClient {
	if logger == nil {
		logger = zap.L()
	}
	return &WhatsAppClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.Named("whatsapp.client"),
	}
}

// NormalizePhone reduces a free-form Brazilian phone number to the
// gateway format: digits only, country code 55 prefixed when the
// number has the local 10 or 11 digits. Anything shorter than 12
// digits after that is unusable.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	phone := digits.String()
	if len(phone) == 10 || len(phone) == 11 {
		phone = "55" + phone
	}
	if len(phone) < 12 {
		return "", notificationerrors.ErrInvalidPhone
	}
	return phone, nil
}

type sendMessageRequest struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// SendMessage delivers one text message to a phone number (raw form,
// normalization happens here).
func (c *WhatsAppClient) SendMessage(ctx context.Context, rawPhone, message string) error {
	phone, err := NormalizePhone(rawPhone)
	if err != nil {
		return err
	}

	body, err := json.Marshal(sendMessageRequest{Number: phone, Message: message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/send-message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-token", c.cfg.Token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// Health pings the gateway, used by the health check endpoint.
func (c *WhatsAppClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp gateway health returned status %d", resp.StatusCode)
	}
	return nil
}
