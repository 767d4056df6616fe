package notify

import (
	"context"
	"log"
	"time"

	"sbs/src/models"
	"sbs/src/types"

	"gorm.io/gorm"
)

const sendTimeout = 10 * time.Second

// Dispatcher sends customer-facing messages through one channel and logs
// every attempt. Sends are best-effort: failures are logged and recorded,
// never retried in the same invocation.
type Dispatcher struct {
	db      *gorm.DB
	channel Channel
	timeout time.Duration
}

func NewDispatcher(db *gorm.DB, channel Channel) *Dispatcher {
	return &Dispatcher{db: db, channel: channel, timeout: sendTimeout}
}

func (d *Dispatcher) Channel() Channel { return d.channel }

// Send delivers text to phone, bounded by the dispatcher timeout so a slow
// provider cannot stall the caller.
func (d *Dispatcher) Send(ctx context.Context, reservationId uint, phone, text string) error {
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.channel.Send(cctx, phone, text)

	entry := models.NotificationLog{
		ReservationID: reservationId,
		Channel:       d.channel.Name(),
		Recipient:     phone,
		Body:          text,
		Status:        types.NOTIFICATION_SENT,
	}
	if err != nil {
		entry.Status = types.NOTIFICATION_FAILED
		entry.ErrorMessage = err.Error()
		log.Printf("[notify] %s send to %s failed: %s\n", d.channel.Name(), phone, err.Error())
	}
	if dberr := d.db.Create(&entry).Error; dberr != nil {
		log.Printf("[notify] could not record notification log: %s\n", dberr.Error())
	}
	return err
}
