package lib

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var calsvc *calendar.Service

func getCalendarClient(conf *oauth2.Config) (*http.Client, error) {
	tokFile, err := os.Open("token.json")
	if err != nil {
		return nil, err
	}
	defer tokFile.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(tokFile).Decode(tok); err != nil {
		return nil, err
	}

	cli := conf.Client(context.Background(), tok)
	return cli, nil
}

func gapiGetCalendarService() (svc *calendar.Service, err error) {
	if calsvc != nil {
		return calsvc, nil
	}
	secretsPath := os.Getenv("SECRETS_DIR")
	b, err := os.ReadFile(path.Join(secretsPath, "admin-sdk-credentials.json"))
	if err != nil {
		return nil, err
	}
	conf, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, err
	}
	cli, err := getCalendarClient(conf)
	if err != nil {
		return nil, err
	}
	srv, err := calendar.NewService(context.Background(), option.WithHTTPClient(cli))
	if err != nil {
		return nil, err
	}
	calsvc = srv
	return srv, nil
}

// NewCalendarService replaces the cached service, for tests.
func NewCalendarService(svc *calendar.Service) {
	calsvc = svc
}

func salonCalendarId() string {
	id := os.Getenv("SALON_CALENDAR_ID")
	if id == "" {
		id = "primary"
	}
	return id
}

func GAPIAddReservationEvent(summary, description, date, start, end, timezone string) (string, error) {
	s, err := gapiGetCalendarService()
	if err != nil {
		return "", err
	}
	evtId := strings.ReplaceAll(uuid.NewString(), "-", "")
	e := &calendar.Event{
		Id:          evtId,
		Summary:     summary,
		Description: description,
		Start: &calendar.EventDateTime{
			DateTime: date + "T" + start + ":00",
			TimeZone: timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: date + "T" + end + ":00",
			TimeZone: timezone,
		},
	}
	created, err := s.Events.Insert(salonCalendarId(), e).Do()
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

func GAPIDeleteEvent(eventId string) error {
	s, err := gapiGetCalendarService()
	if err != nil {
		return err
	}
	err = s.Events.Delete(salonCalendarId(), eventId).Do()
	if gerr, ok := err.(*googleapi.Error); ok {
		// already gone counts as deleted
		if gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone {
			return nil
		}
	}
	return err
}

// GoogleCalendar adapts the calendar API to the capability interfaces the
// booking and survey packages consume.
type GoogleCalendar struct{}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, summary, description, date, start, end, timezone string) (string, error) {
	return GAPIAddReservationEvent(summary, description, date, start, end, timezone)
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, eventId string) error {
	return GAPIDeleteEvent(eventId)
}
