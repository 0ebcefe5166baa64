package infra

import (
	"fmt"

	"citycut/internal/config"

	"github.com/sony/gobreaker"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// messageCreator is the slice of the Twilio API the sender uses.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSSender delivers customer texts through Twilio.
type SMSSender struct {
	api  messageCreator
	from string
	cb   *gobreaker.CircuitBreaker
}

// NewSMSSender returns nil when Twilio credentials are absent; callers treat a
// nil sender as "notifications disabled".
func NewSMSSender(cfg *config.Config) *SMSSender {
	if !cfg.TwilioEnabled() {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	return &SMSSender{api: client.Api, from: cfg.TwilioFrom, cb: NewBreaker("twilio", DefaultBreakerConfig())}
}

// Send texts body to the E.164 number to and returns the message SID.
func (s *SMSSender) Send(to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	var sid string
	err := guard(s.cb, func() error {
		resp, err := s.api.CreateMessage(params)
		if err != nil {
			return err
		}
		if resp.Sid != nil {
			sid = *resp.Sid
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("sms: send to %s: %w", to, err)
	}
	return sid, nil
}
