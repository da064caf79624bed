// Package chat answers front-desk questions from a fixed keyword table.
// There is no language model behind this: the first keyword found as a
// substring of the lower-cased message wins.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smileworks/dental-receptionist/internal/messagelog"
	"github.com/smileworks/dental-receptionist/internal/observability/metrics"
)

type Rule struct {
	Keyword string
	Answer  string
}

// DefaultRules returns the table in match-priority order.
func DefaultRules() []Rule {
	return []Rule{
		{"hours", "We are open Mon-Fri 8am-6pm and Sat 9am-2pm."},
		{"location", "We are located at 123 Smile St, Suite 100."},
		{"insurance", "We accept most major insurance plans. Please have your member ID ready."},
		{"emergency", "If you are experiencing severe pain, swelling, or trauma, please call 911 or go to the nearest ER. For urgent dental issues, we can connect you to the on-call dentist."},
	}
}

const FallbackReply = "Thanks for your message. I can help with hours, location, insurance, scheduling, and more."

type Responder struct {
	rules   []Rule
	log     messagelog.Recorder
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewResponder(rules []Rule, recorder messagelog.Recorder, m *metrics.Metrics, logger zerolog.Logger) *Responder {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Responder{
		rules:   rules,
		log:     recorder,
		metrics: m,
		logger:  logger,
	}
}

// Reply picks the answer for the first matching keyword, or the fallback.
// Both the inbound message and the reply are appended to the message log;
// logging failures never affect the reply.
func (r *Responder) Reply(ctx context.Context, message string) string {
	text := strings.ToLower(message)

	reply := FallbackReply
	for _, rule := range r.rules {
		if strings.Contains(text, rule.Keyword) {
			reply = rule.Answer
			break
		}
	}

	r.record(ctx, messagelog.DirectionInbound, message)
	r.record(ctx, messagelog.DirectionOutbound, reply)

	return reply
}

func (r *Responder) record(ctx context.Context, direction, content string) {
	r.metrics.ChatMessage(direction)

	if r.log == nil {
		return
	}
	err := r.log.Record(ctx, messagelog.Entry{
		Channel:   messagelog.ChannelChat,
		Direction: direction,
		Content:   content,
	})
	if err != nil {
		r.logger.Warn().Err(err).Str("direction", direction).Msg("chat message log write failed")
	}
}
