package handler

import (
	"RegistrationBot/metrics"
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const FallbackApology = "I couldn’t find an answer. Please try again."

type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

// FallbackHandler relays the model's answer for anything no other intent
// matched. Failures become a fixed apology and are never retried.
type FallbackHandler struct {
	Answerer Answerer
	Timeout  time.Duration
}

func (h *FallbackHandler) Handle(ctx context.Context, agent *Agent) error {
	ctx, cancel := withTimeout(ctx, h.Timeout)
	defer cancel()

	answer, err := h.Answerer.Answer(ctx, agent.Request.QueryText)
	metrics.InferenceTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Error().Err(err).Msg("error answering fallback query")
		agent.Add(FallbackApology)
		return nil
	}
	agent.Add(answer)
	return nil
}
