package notify

import (
	"context"
	"errors"
	"log"
	"testing"

	"sbs/src/models"
	"sbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewMockDB() (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening a stub database connection", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening gorm database", err)
	}

	return gormDB, mock
}

type stubChannel struct {
	sent []string
	err  error
}

func (c *stubChannel) Name() string                          { return "stub" }
func (c *stubChannel) InitialSurveyState() types.SurveyState { return types.SURVEY_NONE }
func (c *stubChannel) Send(_ context.Context, _, t string) error {
	c.sent = append(c.sent, t)
	return c.err
}

func TestDispatcherRecordsSuccessfulSend(t *testing.T) {
	gdb, mock := NewMockDB()
	channel := &stubChannel{}
	d := NewDispatcher(gdb, channel)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := d.Send(context.Background(), 5, "+523511234567", "hola")
	require.NoError(t, err)
	assert.Equal(t, []string{"hola"}, channel.sent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDispatcherRecordsFailedSend(t *testing.T) {
	gdb, mock := NewMockDB()
	channel := &stubChannel{err: errors.New("provider down")}
	d := NewDispatcher(gdb, channel)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notification_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := d.Send(context.Background(), 5, "+523511234567", "hola")
	assert.EqualError(t, err, "provider down")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChannelInitialSurveyStates(t *testing.T) {
	// SMS owes no reply until the reminder asks the question; WhatsApp owes a
	// join message first
	assert.Equal(t, types.SURVEY_NONE, (&SNSChannel{}).InitialSurveyState())
	assert.Equal(t, types.SURVEY_PENDING_CONNECTION, NewWhatsAppChannel().InitialSurveyState())
}

func TestTemplatesSpellOutExpectedReplies(t *testing.T) {
	r := &models.Reservation{
		CustomerName:  "Ana",
		CustomerPhone: "+523511234567",
		ServiceCode:   "unas-gel",
		Date:          "2030-01-02",
		StartTime:     "10:00",
		EndTime:       "11:00",
	}

	assert.Contains(t, BookingCreatedMessage(r), "Uñas de gel")
	assert.Contains(t, ConfirmationSurveyMessage(r), "Responde SÍ para cancelar o NO")
	assert.Contains(t, ReminderMessage(r), "mañana")
	assert.Contains(t, CancellationSurveyMessage(r), "quedó cancelada")
	assert.Contains(t, CancellationSurveyMessage(r), "Responde SÍ o NO")
	assert.Contains(t, StaysConfirmedMessage(r), "sigue confirmada")
	assert.Contains(t, RescheduleLinkMessage("https://salon.example/reservar"), "https://salon.example/reservar")

	subject, body := SalonCancellationEmail(r)
	assert.Contains(t, subject, "Ana")
	assert.Contains(t, body, "+523511234567")
	assert.Contains(t, body, "Uñas de gel")
}
