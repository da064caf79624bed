package voice

import (
	"context"
	"errors"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/smileworks/dental-receptionist/internal/config"
)

// TwilioPlacer places calls through the Twilio REST API. The generated client
// does not take a context, so the one passed to PlaceCall is unused.
type TwilioPlacer struct {
	client *twilio.RestClient
}

func NewTwilioPlacer(cfg config.TwilioConfig) *TwilioPlacer {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioPlacer{client: client}
}

func (p *TwilioPlacer) PlaceCall(_ context.Context, to, from, answerURL, statusURL string) (string, error) {
	params := &twilioapi.CreateCallParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetUrl(answerURL)
	params.SetMethod("POST")
	params.SetStatusCallback(statusURL)
	params.SetStatusCallbackMethod("POST")

	call, err := p.client.Api.CreateCall(params)
	if err != nil {
		return "", err
	}
	if call.Sid == nil {
		return "", errors.New("twilio returned no call sid")
	}
	return *call.Sid, nil
}
