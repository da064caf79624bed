package voice

import "github.com/twilio/twilio-go/twiml"

const (
	DefaultGreeting = "Hello, this is your dental office calling."

	goodbyeLine  = "Thank you for your time. Goodbye."
	menuPrompt   = "Press 0 to reach the on-call dentist, or stay on the line."
	transferLine = "Connecting you to the on-call dentist now."
)

// fallbackDocument is served when TwiML rendering fails; the webhook must
// still answer with a valid voice document.
const fallbackDocument = `<?xml version="1.0" encoding="UTF-8"?><Response><Say>We are sorry, we cannot take your input right now. Goodbye.</Say><Hangup/></Response>`

// answerDocument speaks the message, gathers exactly one digit with a four
// second timeout, and hangs up with a goodbye when no digit arrives. The
// verbs after Gather only execute on gather timeout.
func answerDocument(message, menuURL string) string {
	gather := &twiml.VoiceGather{
		Action:    menuURL,
		Method:    "POST",
		NumDigits: "1",
		Timeout:   "4",
		InnerElements: []twiml.Element{
			&twiml.VoiceSay{Message: menuPrompt},
		},
	}

	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{Message: message},
		gather,
		&twiml.VoiceSay{Message: goodbyeLine},
		&twiml.VoiceHangup{},
	})
	if err != nil {
		return fallbackDocument
	}
	return doc
}

// menuDocument transfers to the on-call number when the callee pressed 0 and
// a transfer target is configured; anything else ends the call politely.
func menuDocument(digit, onCallNumber, callerID string) string {
	var verbs []twiml.Element

	if digit == "0" && onCallNumber != "" {
		verbs = []twiml.Element{
			&twiml.VoiceSay{Message: transferLine},
			&twiml.VoiceDial{
				CallerId: callerID,
				InnerElements: []twiml.Element{
					&twiml.VoiceNumber{PhoneNumber: onCallNumber},
				},
			},
		}
	} else {
		verbs = []twiml.Element{
			&twiml.VoiceSay{Message: goodbyeLine},
			&twiml.VoiceHangup{},
		}
	}

	doc, err := twiml.Voice(verbs)
	if err != nil {
		return fallbackDocument
	}
	return doc
}
