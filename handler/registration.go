package handler

import (
	"RegistrationBot/metrics"
	"RegistrationBot/model"
	"RegistrationBot/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Parameter names used by the registration form.
const (
	ParamName        = "name"
	ParamPhoneNumber = "number"
	ParamNationalID  = "CnicNum"
	ParamEmail       = "email"
	ParamGender      = "gender"
	ParamCourse      = "course"
)

const (
	missingFieldsReply = "⚠️ Please provide your name, email, CNIC, phone number and course. Missing: %s."
	storeFailedReply   = "⚠️ We could not save your registration right now. Please try again later."
	registeredReply    = "✅ Thank you, %s. Your registration is received. A confirmation email is on its way to %s."
	emailFailedReply   = "⚠️ Registration complete, but email delivery failed."
)

type Mailer interface {
	Send(ctx context.Context, record model.RegistrationRecord) error
}

type RegistrationNotifier interface {
	NotifyRegistration(ctx context.Context, record model.RegistrationRecord) error
}

type RegistrationHandler struct {
	Store    repo.Store
	Mailer   Mailer
	Notifier RegistrationNotifier // optional
	Clock    func() time.Time

	StoreTimeout  time.Duration
	MailTimeout   time.Duration
	NotifyTimeout time.Duration
}

func RegistrationParams(agent *Agent) model.RegistrationParams {
	return model.RegistrationParams{
		Name:        agent.Param(ParamName),
		PhoneNumber: agent.Param(ParamPhoneNumber),
		NationalID:  agent.Param(ParamNationalID),
		Email:       agent.Param(ParamEmail),
		Gender:      agent.Param(ParamGender),
		Course:      agent.Param(ParamCourse),
	}
}

// Handle validates the form, stores it, then emails the ID card. The row is
// committed before any email attempt; a store failure skips the email.
func (h *RegistrationHandler) Handle(ctx context.Context, agent *Agent) error {
	params := RegistrationParams(agent)
	log.Info().
		Str("name", params.Name).
		Str("email", params.Email).
		Str("course", params.Course).
		Msg("received registration")

	now := time.Now
	if h.Clock != nil {
		now = h.Clock
	}
	record, err := params.Record(now())
	var missing *model.MissingFieldsError
	if errors.As(err, &missing) {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		agent.Add(fmt.Sprintf(missingFieldsReply, strings.Join(missing.Fields, ", ")))
		return nil
	} else if err != nil {
		return err
	}

	if err := h.store(ctx, record); err != nil {
		metrics.RegistrationsTotal.WithLabelValues("store_failed").Inc()
		log.Error().Err(err).Str("email", record.Email).Msg("error storing registration")
		agent.Add(storeFailedReply)
		return nil
	}
	metrics.RegistrationsTotal.WithLabelValues("stored").Inc()
	log.Info().Str("email", record.Email).Msg("registration stored")

	agent.Add(fmt.Sprintf(registeredReply, record.Name, record.Email))

	err = h.mail(ctx, record)
	metrics.EmailsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Error().Err(err).Str("email", record.Email).Msg("error sending confirmation email")
		agent.Add(emailFailedReply)
	} else {
		log.Info().Str("email", record.Email).Msg("confirmation email sent")
	}

	h.notify(ctx, record)
	return nil
}

func (h *RegistrationHandler) store(ctx context.Context, record model.RegistrationRecord) error {
	ctx, cancel := withTimeout(ctx, h.StoreTimeout)
	defer cancel()
	if err := h.Store.Append(ctx, record); err != nil {
		if !errors.Is(err, model.ErrPersistence) {
			err = fmt.Errorf("%w: %w", model.ErrPersistence, err)
		}
		return err
	}
	return nil
}

func (h *RegistrationHandler) mail(ctx context.Context, record model.RegistrationRecord) error {
	if h.Mailer == nil {
		return fmt.Errorf("%w: no mailer", model.ErrDelivery)
	}
	ctx, cancel := withTimeout(ctx, h.MailTimeout)
	defer cancel()
	if err := h.Mailer.Send(ctx, record); err != nil {
		if !errors.Is(err, model.ErrDelivery) {
			err = fmt.Errorf("%w: %w", model.ErrDelivery, err)
		}
		return err
	}
	return nil
}

func (h *RegistrationHandler) notify(ctx context.Context, record model.RegistrationRecord) {
	if h.Notifier == nil {
		return
	}
	ctx, cancel := withTimeout(ctx, h.NotifyTimeout)
	defer cancel()
	if err := h.Notifier.NotifyRegistration(ctx, record); err != nil {
		log.Warn().Err(err).Str("email", record.Email).Msg("error notifying organiser")
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
