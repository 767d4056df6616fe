package notify

import (
	"sbs/src/lib"
	"sbs/src/models"
)

// SalonNotifier is the capability for internal notifications to salon staff.
type SalonNotifier interface {
	NotifyCancellation(r *models.Reservation) error
}

// EmailSalonNotifier delivers staff notifications over SMTP.
type EmailSalonNotifier struct{}

func (EmailSalonNotifier) NotifyCancellation(r *models.Reservation) error {
	subject, body := SalonCancellationEmail(r)
	return lib.SendSalonEmail(subject, body)
}
