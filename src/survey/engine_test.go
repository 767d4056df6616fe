package survey

import (
	"context"
	"strings"
	"testing"
	"time"

	"sbs/src/intent"
	"sbs/src/models"
	"sbs/src/types"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	reservations []*models.Reservation
}

func (f *fakeStore) FindLatestByPhone(_ context.Context, phoneKey string, state types.SurveyState, status types.ReservationStatus) (*models.Reservation, error) {
	var best *models.Reservation
	for _, r := range f.reservations {
		if r.PhoneKey == phoneKey && r.SurveyState == state && r.Status == status {
			if best == nil || r.CreatedAt.After(best.CreatedAt) {
				best = r
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (f *fakeStore) ApplyTransition(_ context.Context, r *models.Reservation, tr Transition) (bool, error) {
	for _, cur := range f.reservations {
		if cur.ID != r.ID {
			continue
		}
		if cur.SurveyState != r.SurveyState {
			return false, nil
		}
		cur.SurveyState = tr.NextSurveyState
		cur.Status = tr.NextStatus
		if tr.ClearToken {
			cur.CancellationToken = nil
		}
		return true, nil
	}
	return false, nil
}

type fakeCalendar struct {
	deleted []string
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, eventId string) error {
	f.deleted = append(f.deleted, eventId)
	return nil
}

type fakeMessenger struct {
	sent []string
}

func (f *fakeMessenger) Send(_ context.Context, _ uint, _ string, text string) error {
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeMessenger) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeSalon struct {
	notified int
}

func (f *fakeSalon) NotifyCancellation(_ *models.Reservation) error {
	f.notified++
	return nil
}

func pendingCancelReservation() *models.Reservation {
	token := "tok-1"
	eventId := "evt-1"
	return &models.Reservation{
		ID:                1,
		CustomerName:      "Ana",
		CustomerPhone:     "+523511234567",
		PhoneKey:          "3511234567",
		ServiceCode:       "unas-gel",
		Date:              "2025-06-02",
		StartTime:         "10:00",
		EndTime:           "11:00",
		Status:            types.RESERVATION_CONFIRMED,
		SurveyState:       types.SURVEY_CANCEL_PENDING,
		CancellationToken: &token,
		CalendarEventID:   &eventId,
	}
}

func newTestEngine(store Store, cal *fakeCalendar, m *fakeMessenger, salon *fakeSalon) *Engine {
	return NewEngine(store, nil, cal, m, salon)
}

func TestHandleInboundAffirmativeCancels(t *testing.T) {
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	cal := &fakeCalendar{}
	m := &fakeMessenger{}
	salon := &fakeSalon{}
	e := newTestEngine(store, cal, m, salon)

	e.HandleInbound(context.Background(), InboundMessage{From: "whatsapp:+523511234567", Body: "sí"})

	assert.Equal(t, types.RESERVATION_CANCELLED, r.Status)
	assert.Equal(t, types.SURVEY_RESCHEDULE_PENDING, r.SurveyState)
	assert.Nil(t, r.CancellationToken)
	assert.Equal(t, []string{"evt-1"}, cal.deleted)
	assert.Equal(t, 1, salon.notified)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.last(), "cancelada")
}

func TestHandleInboundNegativeKeepsReservation(t *testing.T) {
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	cal := &fakeCalendar{}
	m := &fakeMessenger{}
	salon := &fakeSalon{}
	e := newTestEngine(store, cal, m, salon)

	e.HandleInbound(context.Background(), InboundMessage{From: "+523511234567", Body: "No."})

	assert.Equal(t, types.RESERVATION_CONFIRMED, r.Status)
	assert.Equal(t, types.SURVEY_COMPLETED, r.SurveyState)
	assert.NotNil(t, r.CancellationToken)
	assert.Empty(t, cal.deleted)
	assert.Equal(t, 0, salon.notified)
	assert.Contains(t, m.last(), "sigue confirmada")
}

func TestHandleInboundUnrecognizedReprompts(t *testing.T) {
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	m := &fakeMessenger{}
	e := newTestEngine(store, &fakeCalendar{}, m, &fakeSalon{})

	e.HandleInbound(context.Background(), InboundMessage{From: "+523511234567", Body: "no sé"})

	assert.Equal(t, types.SURVEY_CANCEL_PENDING, r.SurveyState)
	assert.Equal(t, types.RESERVATION_CONFIRMED, r.Status)
	assert.Contains(t, m.last(), "No entendimos")
}

func TestHandleInboundDoubleDelivery(t *testing.T) {
	// Same message delivered twice without a provider message id. The second
	// delivery must not cancel twice, delete the calendar event twice, or
	// notify the salon twice; a duplicate customer-facing message is fine.
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	cal := &fakeCalendar{}
	m := &fakeMessenger{}
	salon := &fakeSalon{}
	e := newTestEngine(store, cal, m, salon)

	msg := InboundMessage{From: "+523511234567", Body: "sí"}
	e.HandleInbound(context.Background(), msg)
	e.HandleInbound(context.Background(), msg)

	assert.Equal(t, types.RESERVATION_CANCELLED, r.Status)
	assert.Len(t, cal.deleted, 1)
	assert.Equal(t, 1, salon.notified)
}

func TestHandleInboundDuplicateMessageID(t *testing.T) {
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	cal := &fakeCalendar{}
	m := &fakeMessenger{}
	salon := &fakeSalon{}

	cache, mock := redismock.NewClientMock()
	mock.ExpectSetNX("webhook:msg:SM100", 1, dedupTTL).SetVal(true)
	mock.ExpectSetNX("webhook:msg:SM100", 1, dedupTTL).SetVal(false)

	e := NewEngine(store, cache, cal, m, salon)
	msg := InboundMessage{From: "+523511234567", Body: "sí", MessageID: "SM100"}
	e.HandleInbound(context.Background(), msg)
	e.HandleInbound(context.Background(), msg)

	assert.Len(t, cal.deleted, 1)
	assert.Equal(t, 1, salon.notified)
	assert.Len(t, m.sent, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleInboundReschedulePriority(t *testing.T) {
	// With one reservation awaiting the cancel survey and a newer one
	// awaiting the reschedule survey on the same phone, the reschedule survey
	// wins the lookup.
	older := pendingCancelReservation()
	newer := pendingCancelReservation()
	newer.ID = 2
	newer.Status = types.RESERVATION_CANCELLED
	newer.SurveyState = types.SURVEY_RESCHEDULE_PENDING
	newer.Timestamps.CreatedAt = older.CreatedAt.Add(time.Hour)
	store := &fakeStore{reservations: []*models.Reservation{older, newer}}
	m := &fakeMessenger{}
	e := newTestEngine(store, &fakeCalendar{}, m, &fakeSalon{})

	e.HandleInbound(context.Background(), InboundMessage{From: "+523511234567", Body: "no"})

	assert.Equal(t, types.SURVEY_COMPLETED, newer.SurveyState)
	assert.Equal(t, types.SURVEY_CANCEL_PENDING, older.SurveyState)
	assert.Equal(t, types.RESERVATION_CONFIRMED, older.Status)
	assert.Contains(t, m.last(), "gracias por avisarnos")
}

func TestHandleInboundNewestOfSameStateWins(t *testing.T) {
	first := pendingCancelReservation()
	second := pendingCancelReservation()
	second.ID = 2
	second.Timestamps.CreatedAt = first.CreatedAt.Add(time.Hour)
	store := &fakeStore{reservations: []*models.Reservation{first, second}}
	m := &fakeMessenger{}
	e := newTestEngine(store, &fakeCalendar{}, m, &fakeSalon{})

	e.HandleInbound(context.Background(), InboundMessage{From: "+523511234567", Body: "no"})

	assert.Equal(t, types.SURVEY_COMPLETED, second.SurveyState)
	assert.Equal(t, types.SURVEY_CANCEL_PENDING, first.SurveyState)
}

func TestHandleInboundConnectionSignal(t *testing.T) {
	r := pendingCancelReservation()
	r.SurveyState = types.SURVEY_PENDING_CONNECTION
	store := &fakeStore{reservations: []*models.Reservation{r}}
	m := &fakeMessenger{}
	e := newTestEngine(store, &fakeCalendar{}, m, &fakeSalon{})

	e.HandleInbound(context.Background(), InboundMessage{From: "whatsapp:+523511234567", Body: "Hola, quiero confirmación"})

	assert.Equal(t, types.SURVEY_CANCEL_PENDING, r.SurveyState)
	assert.Equal(t, types.RESERVATION_CONFIRMED, r.Status)
	assert.True(t, strings.Contains(m.last(), "¿Deseas cancelarla?"))
}

func TestHandleInboundNoMatchSendsGeneric(t *testing.T) {
	store := &fakeStore{}
	m := &fakeMessenger{}
	e := newTestEngine(store, &fakeCalendar{}, m, &fakeSalon{})

	e.HandleInbound(context.Background(), InboundMessage{From: "+525599887766", Body: "sí"})

	require.Len(t, m.sent, 1)
	assert.Contains(t, m.last(), "no encontramos una cita")
}

func TestHandleInboundStaleStateIsNoOp(t *testing.T) {
	// The engine read the reservation in cancel_survey_pending but another
	// delivery moved it before the write; the conditional update makes this
	// invocation a no-op that only answers with the generic fallback.
	r := pendingCancelReservation()
	store := &fakeStore{reservations: []*models.Reservation{r}}
	cal := &fakeCalendar{}
	m := &fakeMessenger{}
	salon := &fakeSalon{}
	e := newTestEngine(store, cal, m, salon)

	stale := *r
	r.SurveyState = types.SURVEY_COMPLETED
	e.apply(context.Background(), &stale, intent.INTENT_AFFIRMATIVE)

	assert.Empty(t, cal.deleted)
	assert.Equal(t, 0, salon.notified)
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.last(), "no encontramos una cita")
}
