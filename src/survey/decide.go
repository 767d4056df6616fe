package survey

import (
	"sbs/src/intent"
	"sbs/src/types"
)

// Effect names a side effect the orchestrator must run after a transition is
// persisted. Effects in a Transition are ordered: calendar mutation first,
// then salon notification, then customer-facing messages.
type Effect string

const (
	EffectDeleteCalendarEvent      Effect = "delete_calendar_event"
	EffectNotifySalon              Effect = "notify_salon"
	EffectSendConfirmationSurvey   Effect = "send_confirmation_survey"
	EffectSendCancellationSurvey   Effect = "send_cancellation_survey"
	EffectSendStaysConfirmed       Effect = "send_stays_confirmed"
	EffectSendRescheduleLink       Effect = "send_reschedule_link"
	EffectSendFarewell             Effect = "send_farewell"
	EffectRepromptCancelSurvey     Effect = "reprompt_cancel_survey"
	EffectRepromptRescheduleSurvey Effect = "reprompt_reschedule_survey"
)

// Transition is the decided outcome for one inbound message: the state to
// write and the side effects to run once the write lands.
type Transition struct {
	NextSurveyState types.SurveyState
	NextStatus      types.ReservationStatus
	ClearToken      bool
	Effects         []Effect
}

// Decide is the pure transition function for the survey conversation. It
// never touches storage; the caller persists the transition conditionally and
// runs the effects. Returns false when no rule covers the inputs.
func Decide(state types.SurveyState, status types.ReservationStatus, in intent.Intent) (Transition, bool) {
	switch {
	case state == types.SURVEY_PENDING_CONNECTION && status == types.RESERVATION_CONFIRMED:
		// any recognized join signal connects the conversation and opens the
		// cancel survey; the intent itself does not matter yet
		return Transition{
			NextSurveyState: types.SURVEY_CANCEL_PENDING,
			NextStatus:      types.RESERVATION_CONFIRMED,
			Effects:         []Effect{EffectSendConfirmationSurvey},
		}, true

	case state == types.SURVEY_CANCEL_PENDING && status == types.RESERVATION_CONFIRMED:
		switch in {
		case intent.INTENT_AFFIRMATIVE:
			return Transition{
				NextSurveyState: types.SURVEY_RESCHEDULE_PENDING,
				NextStatus:      types.RESERVATION_CANCELLED,
				ClearToken:      true,
				Effects: []Effect{
					EffectDeleteCalendarEvent,
					EffectNotifySalon,
					EffectSendCancellationSurvey,
				},
			}, true
		case intent.INTENT_NEGATIVE:
			return Transition{
				NextSurveyState: types.SURVEY_COMPLETED,
				NextStatus:      types.RESERVATION_CONFIRMED,
				Effects:         []Effect{EffectSendStaysConfirmed},
			}, true
		default:
			return Transition{
				NextSurveyState: types.SURVEY_CANCEL_PENDING,
				NextStatus:      types.RESERVATION_CONFIRMED,
				Effects:         []Effect{EffectRepromptCancelSurvey},
			}, true
		}

	case state == types.SURVEY_RESCHEDULE_PENDING && status == types.RESERVATION_CANCELLED:
		switch in {
		case intent.INTENT_AFFIRMATIVE:
			return Transition{
				NextSurveyState: types.SURVEY_COMPLETED,
				NextStatus:      types.RESERVATION_CANCELLED,
				Effects:         []Effect{EffectSendRescheduleLink},
			}, true
		case intent.INTENT_NEGATIVE:
			return Transition{
				NextSurveyState: types.SURVEY_COMPLETED,
				NextStatus:      types.RESERVATION_CANCELLED,
				Effects:         []Effect{EffectSendFarewell},
			}, true
		default:
			return Transition{
				NextSurveyState: types.SURVEY_RESCHEDULE_PENDING,
				NextStatus:      types.RESERVATION_CANCELLED,
				Effects:         []Effect{EffectRepromptRescheduleSurvey},
			}, true
		}
	}
	return Transition{}, false
}
