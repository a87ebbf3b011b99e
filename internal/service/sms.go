package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrSMSNotConfigured = errors.New("sms service not configured (missing TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN or TWILIO_PHONE_NUMBER)")

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSService delivers text messages through Twilio. In development it only logs.
type SMSService struct {
	api   messageCreator
	from  string
	isDev bool
}

func NewSMSService(accountSID, authToken, from string, isDev bool) *SMSService {
	s := &SMSService{from: from, isDev: isDev}
	if accountSID != "" && authToken != "" && !isDev {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		})
		s.api = client.Api
	}
	return s
}

func (s *SMSService) Send(ctx context.Context, to, body string) error {
	if s.isDev {
		slog.Info("sms sent (dev mode)", "to", to, "body", body)
		return nil
	}

	if s.api == nil || s.from == "" {
		return ErrSMSNotConfigured
	}

	// twilio-go has no context support, so honour cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}

	sid := ""
	if msg != nil && msg.Sid != nil {
		sid = *msg.Sid
	}
	slog.Debug("sms sent", "to", to, "sid", sid)
	return nil
}
