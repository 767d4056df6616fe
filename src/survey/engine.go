// Package survey drives the appointment conversation: it correlates inbound
// free-text messages from the messaging providers back to the one pending
// reservation for that phone, decides the next survey state, and runs the
// resulting side effects without double-processing.
//
// Known simplification: when several reservations for one phone sit in the
// same survey state, only the most recently created one is matched. A
// customer is assumed to hold one live conversation at a time.
package survey

import (
	"context"
	"log"
	"time"

	"sbs/src/config"
	"sbs/src/intent"
	"sbs/src/models"
	"sbs/src/notify"
	"sbs/src/phone"
	"sbs/src/types"

	"github.com/redis/go-redis/v9"
)

const (
	effectTimeout = 10 * time.Second
	dedupTTL      = 24 * time.Hour
)

// connection keywords are matched with the free-form containment policy,
// unlike survey replies which are matched exactly.
var connectionKeywords = []string{"confirmación", "confirmacion", "join", "hola"}

// InboundMessage is a provider-normalized inbound text.
type InboundMessage struct {
	From string
	Body string
	// MessageID is the provider's delivery id when it supplies one; used only
	// for the best-effort retry fast path.
	MessageID string
}

// Calendar is the slice of the calendar capability the engine needs.
type Calendar interface {
	DeleteEvent(ctx context.Context, eventId string) error
}

// Messenger sends a customer-facing text; satisfied by *notify.Dispatcher.
type Messenger interface {
	Send(ctx context.Context, reservationId uint, phone, text string) error
}

type Engine struct {
	store     Store
	cache     *redis.Client
	cal       Calendar
	messenger Messenger
	salon     notify.SalonNotifier
}

func NewEngine(store Store, cache *redis.Client, cal Calendar, messenger Messenger, salon notify.SalonNotifier) *Engine {
	return &Engine{store: store, cache: cache, cal: cal, messenger: messenger, salon: salon}
}

// HandleInbound processes one webhook delivery. It never returns an error:
// the webhook was already acknowledged, so every failure here is logged and
// the conversation falls back to the generic response rather than hanging
// silently.
//
// Search order is intentional: the reschedule survey (the more specific,
// later state) is checked before the cancel survey, then the connection
// step, then the generic fallback.
func (e *Engine) HandleInbound(ctx context.Context, msg InboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[survey] panic handling inbound message from %s: %v\n", msg.From, r)
		}
	}()

	if !e.firstDelivery(ctx, msg.MessageID) {
		log.Printf("[survey] duplicate delivery %s ignored\n", msg.MessageID)
		return
	}

	key := phone.CorrelationKey(msg.From)

	r, err := e.store.FindLatestByPhone(ctx, key, types.SURVEY_RESCHEDULE_PENDING, types.RESERVATION_CANCELLED)
	if err != nil {
		log.Printf("[survey] lookup failed for %s: %s\n", key, err.Error())
		e.sendGeneric(ctx, msg.From)
		return
	}
	if r != nil {
		e.apply(ctx, r, intent.ClassifyReply(msg.Body))
		return
	}

	r, err = e.store.FindLatestByPhone(ctx, key, types.SURVEY_CANCEL_PENDING, types.RESERVATION_CONFIRMED)
	if err != nil {
		log.Printf("[survey] lookup failed for %s: %s\n", key, err.Error())
		e.sendGeneric(ctx, msg.From)
		return
	}
	if r != nil {
		e.apply(ctx, r, intent.ClassifyReply(msg.Body))
		return
	}

	r, err = e.store.FindLatestByPhone(ctx, key, types.SURVEY_PENDING_CONNECTION, types.RESERVATION_CONFIRMED)
	if err != nil {
		log.Printf("[survey] lookup failed for %s: %s\n", key, err.Error())
		e.sendGeneric(ctx, msg.From)
		return
	}
	if r != nil && intent.ContainsKeyword(msg.Body, connectionKeywords...) {
		e.apply(ctx, r, intent.INTENT_UNRECOGNIZED)
		return
	}

	e.sendGeneric(ctx, msg.From)
}

// firstDelivery is a best-effort fast path that drops provider retries by
// message id. Cache errors never block processing; the conditional write in
// ApplyTransition is what actually guarantees at-most-once state changes.
func (e *Engine) firstDelivery(ctx context.Context, messageId string) bool {
	if e.cache == nil || messageId == "" {
		return true
	}
	ok, err := e.cache.SetNX(ctx, "webhook:msg:"+messageId, 1, dedupTTL).Result()
	if err != nil {
		log.Printf("[survey] dedup cache unavailable: %s\n", err.Error())
		return true
	}
	return ok
}

func (e *Engine) apply(ctx context.Context, r *models.Reservation, in intent.Intent) {
	tr, ok := Decide(r.SurveyState, r.Status, in)
	if !ok {
		e.sendGeneric(ctx, r.CustomerPhone)
		return
	}

	applied, err := e.store.ApplyTransition(ctx, r, tr)
	if err != nil {
		log.Printf("[survey] transition failed for reservation [%d]: %s\n", r.ID, err.Error())
		e.sendGeneric(ctx, r.CustomerPhone)
		return
	}
	if !applied {
		// another delivery won the race; this one becomes a no-op
		e.sendGeneric(ctx, r.CustomerPhone)
		return
	}

	for _, eff := range tr.Effects {
		e.runEffect(ctx, r, eff)
	}
}

// runEffect executes one side effect bounded by a timeout. Failures are
// logged and never roll back the persisted transition.
func (e *Engine) runEffect(ctx context.Context, r *models.Reservation, eff Effect) {
	cctx, cancel := context.WithTimeout(ctx, effectTimeout)
	defer cancel()

	switch eff {
	case EffectDeleteCalendarEvent:
		if e.cal == nil || r.CalendarEventID == nil {
			return
		}
		if err := e.cal.DeleteEvent(cctx, *r.CalendarEventID); err != nil {
			log.Printf("[survey] calendar delete failed for reservation [%d]: %s\n", r.ID, err.Error())
		}
	case EffectNotifySalon:
		if e.salon == nil {
			return
		}
		if err := e.salon.NotifyCancellation(r); err != nil {
			log.Printf("[survey] salon notification failed for reservation [%d]: %s\n", r.ID, err.Error())
		}
	case EffectSendConfirmationSurvey:
		e.send(cctx, r, notify.ConfirmationSurveyMessage(r))
	case EffectSendCancellationSurvey:
		e.send(cctx, r, notify.CancellationSurveyMessage(r))
	case EffectSendStaysConfirmed:
		e.send(cctx, r, notify.StaysConfirmedMessage(r))
	case EffectSendRescheduleLink:
		e.send(cctx, r, notify.RescheduleLinkMessage(config.RescheduleURL()))
	case EffectSendFarewell:
		e.send(cctx, r, notify.FarewellMessage())
	case EffectRepromptCancelSurvey:
		e.send(cctx, r, notify.CancelSurveyReprompt())
	case EffectRepromptRescheduleSurvey:
		e.send(cctx, r, notify.RescheduleSurveyReprompt())
	}
}

func (e *Engine) send(ctx context.Context, r *models.Reservation, text string) {
	if err := e.messenger.Send(ctx, r.ID, r.CustomerPhone, text); err != nil {
		log.Printf("[survey] message to %s failed: %s\n", r.CustomerPhone, err.Error())
	}
}

func (e *Engine) sendGeneric(ctx context.Context, to string) {
	cctx, cancel := context.WithTimeout(ctx, effectTimeout)
	defer cancel()
	if err := e.messenger.Send(cctx, 0, to, notify.NoAppointmentMessage()); err != nil {
		log.Printf("[survey] generic response to %s failed: %s\n", to, err.Error())
	}
}
