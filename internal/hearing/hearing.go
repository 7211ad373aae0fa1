package hearing

// Appeal types as reported by the case API
const (
	TypeOral  = "oral"
	TypePaper = "paper"
	TypeCOR   = "cor"
)

// Event types relevant for the hearing tab
const (
	EventHearingBooked    = "HEARING_BOOKED"
	EventNewHearingBooked = "NEW_HEARING_BOOKED"
)

// DecisionStateTribunalViewIssued marks a decision the appellant still has to accept or reject
const DecisionStateTribunalViewIssued = "decision_issued"

// OnlineHearing represents the online hearing record the case API correlates with an appeal.
// It is immutable once fetched; a session refresh replaces it wholesale.
type OnlineHearing struct {
	OnlineHearingID string `json:"online_hearing_id"`
	CaseID          int64  `json:"case_id"`
	CaseReference   string `json:"case_reference"`
	AppellantName   string `json:"appellant_name"`

	AppealDetails *AppealDetails `json:"appeal_details,omitempty"`

	Decision            *Decision     `json:"decision,omitempty"`
	HearingArrangements *Arrangements `json:"hearing_arrangements,omitempty"`
}

// AppealDetails carries the appeal type and the ordered event history of the appeal
type AppealDetails struct {
	HearingType      string  `json:"hearing_type"`
	LatestEvents     []Event `json:"latest_events"`
	HistoricalEvents []Event `json:"historical_events"`
}

// Event represents a single typed entry of the appeal's event history
type Event struct {
	Type       string `json:"type"`
	Date       string `json:"date"`
	ContentKey string `json:"content_key"`
}

// Decision represents the current decision issued on the hearing, if any
type Decision struct {
	DecisionState         string `json:"decision_state"`
	DecisionStateDatetime string `json:"decision_state_datetime"`
	StartDate             string `json:"start_date"`
	EndDate               string `json:"end_date"`
}

// Arrangements represents the support arrangements requested for an oral hearing
type Arrangements struct {
	LanguageInterpreter bool   `json:"language_interpreter"`
	SignLanguage        bool   `json:"sign_language_interpreter"`
	HearingLoop         bool   `json:"hearing_loop_required"`
	DisabledAccess      bool   `json:"disabled_access_required"`
	Other               string `json:"other_arrangements"`
}

// HearingType returns the appeal type of the hearing, or an empty string if the appeal details are absent
func (hearing *OnlineHearing) HearingType() string {
	if hearing.AppealDetails == nil {
		return ""
	}
	return hearing.AppealDetails.HearingType
}

// BookedHearingEvent returns the first hearing-booked event of the appeal's combined event history
func (hearing *OnlineHearing) BookedHearingEvent() *Event {
	if hearing.AppealDetails == nil {
		return nil
	}
	events := append(append([]Event{}, hearing.AppealDetails.LatestEvents...), hearing.AppealDetails.HistoricalEvents...)
	for i := range events {
		if events[i].Type == EventHearingBooked || events[i].Type == EventNewHearingBooked {
			return &events[i]
		}
	}
	return nil
}

// HasTribunalView returns whether a tribunal view awaiting a response has been issued on the hearing
func (hearing *OnlineHearing) HasTribunalView() bool {
	return hearing.Decision != nil && hearing.Decision.DecisionState == DecisionStateTribunalViewIssued
}
