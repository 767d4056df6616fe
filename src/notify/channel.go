// Package notify sends templated messages to customers through a messaging
// channel capability and records every attempt in the notification log.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"sbs/src/lib"
	"sbs/src/types"
)

// Channel is the messaging capability: deliver a text to a phone number.
// Implementations also declare which survey state a fresh reservation starts
// in, since WhatsApp conversations require an explicit join step that plain
// SMS does not.
type Channel interface {
	Name() string
	InitialSurveyState() types.SurveyState
	Send(ctx context.Context, phone, text string) error
}

// SNSChannel delivers SMS through AWS SNS.
type SNSChannel struct{}

func (c *SNSChannel) Name() string { return "sms" }

// InitialSurveyState is none for SMS: the booking confirmation asks no
// question, so no reply is owed until the reminder sweep opens the cancel
// survey. A stray "sí" before the reminder gets the generic fallback.
func (c *SNSChannel) InitialSurveyState() types.SurveyState { return types.SURVEY_NONE }

func (c *SNSChannel) Send(ctx context.Context, phone, text string) error {
	return lib.SNSPublishSMS(ctx, phone, text)
}

// WhatsAppChannel delivers messages through the WhatsApp Cloud API.
type WhatsAppChannel struct {
	Token         string
	PhoneNumberID string
	BaseURL       string
	HTTPClient    *http.Client
}

func NewWhatsAppChannel() *WhatsAppChannel {
	return &WhatsAppChannel{
		Token:         os.Getenv("WHATSAPP_TOKEN"),
		PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
		BaseURL:       "https://graph.facebook.com/v19.0",
		HTTPClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WhatsAppChannel) Name() string { return "whatsapp" }

func (c *WhatsAppChannel) InitialSurveyState() types.SurveyState {
	return types.SURVEY_PENDING_CONNECTION
}

func (c *WhatsAppChannel) Send(ctx context.Context, phone, text string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                phone,
		"type":              "text",
		"text":              map[string]string{"body": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("whatsapp send failed: status %d: %s", res.StatusCode, string(b))
	}
	return nil
}
