package notify

import (
	"fmt"

	"sbs/src/catalog"
	"sbs/src/models"
)

// Single-locale (es-MX) message templates. Survey questions always spell out
// the expected SÍ/NO reply because inbound replies are matched exactly.

func serviceName(code string) string {
	if s, ok := catalog.Lookup(code); ok {
		return s.Name
	}
	return code
}

func BookingCreatedMessage(r *models.Reservation) string {
	return fmt.Sprintf(
		"Hola %s, tu cita de %s quedó registrada para el %s a las %s. ¡Te esperamos!",
		r.CustomerName, serviceName(r.ServiceCode), r.Date, r.StartTime)
}

// ConfirmationSurveyMessage opens the cancel survey once the conversation is
// connected.
func ConfirmationSurveyMessage(r *models.Reservation) string {
	return fmt.Sprintf(
		"Hola %s, confirmamos tu cita de %s el %s a las %s. ¿Deseas cancelarla? Responde SÍ para cancelar o NO para conservarla.",
		r.CustomerName, serviceName(r.ServiceCode), r.Date, r.StartTime)
}

func ReminderMessage(r *models.Reservation) string {
	return fmt.Sprintf(
		"Hola %s, te recordamos tu cita de %s mañana %s a las %s. ¿Deseas cancelarla? Responde SÍ para cancelar o NO para conservarla.",
		r.CustomerName, serviceName(r.ServiceCode), r.Date, r.StartTime)
}

// CancellationSurveyMessage confirms the cancellation and opens the
// reschedule survey.
func CancellationSurveyMessage(r *models.Reservation) string {
	return fmt.Sprintf(
		"%s, tu cita del %s a las %s quedó cancelada. ¿Te gustaría reagendar en otra fecha? Responde SÍ o NO.",
		r.CustomerName, r.Date, r.StartTime)
}

func StaysConfirmedMessage(r *models.Reservation) string {
	return fmt.Sprintf("¡Perfecto %s! Tu cita del %s a las %s sigue confirmada. Te esperamos.",
		r.CustomerName, r.Date, r.StartTime)
}

func RescheduleLinkMessage(url string) string {
	return fmt.Sprintf("¡Genial! Agenda tu nueva cita aquí: %s", url)
}

func FarewellMessage() string {
	return "Entendido, gracias por avisarnos. ¡Esperamos verte pronto!"
}

func CancelSurveyReprompt() string {
	return "No entendimos tu respuesta. ¿Deseas cancelar tu cita? Responde SÍ para cancelar o NO para conservarla."
}

func RescheduleSurveyReprompt() string {
	return "No entendimos tu respuesta. ¿Te gustaría reagendar tu cita? Responde SÍ o NO."
}

func NoAppointmentMessage() string {
	return "Hola, no encontramos una cita pendiente asociada a este número. Si necesitas agendar, visita nuestra página de reservas."
}

func SalonCancellationEmail(r *models.Reservation) (subject, body string) {
	subject = fmt.Sprintf("Cita cancelada: %s el %s %s", r.CustomerName, r.Date, r.StartTime)
	body = fmt.Sprintf(
		"La clienta %s (%s) canceló su cita de %s programada el %s de %s a %s.",
		r.CustomerName, r.CustomerPhone, serviceName(r.ServiceCode), r.Date, r.StartTime, r.EndTime)
	return subject, body
}
