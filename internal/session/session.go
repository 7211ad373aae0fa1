package session

import (
	"github.com/appealtrack/portal/internal/bitflag"
	"github.com/appealtrack/portal/internal/hearing"
)

// Feature toggles snapshotted into the session at login time
const (
	FeatureManageYourAppeal bitflag.Flag = 1 << iota
	FeatureWelsh
)

// State represents the per-browser-session data of an authenticated appellant or representative.
// It is owned by the request-handling layer; every mutation goes through Populate or the
// storage driver, never through ambient shared state.
type State struct {
	AccessToken string `json:"access_token,omitempty"`
	IdamEmail   string `json:"idam_email,omitempty"`

	// TYA is the appeal tracking number carried through the login redirect round-trip
	TYA string `json:"tya,omitempty"`

	Hearing    *hearing.OnlineHearing `json:"hearing,omitempty"`
	AppealType string                 `json:"appeal_type,omitempty"`

	FeatureToggles bitflag.Container `json:"feature_toggles"`

	TribunalViewAccepted bool `json:"tribunal_view_accepted,omitempty"`
}

// Populate returns a copy of the given state with the access token, hearing record and
// tracking number of a successful login applied. It performs no I/O and cannot fail;
// the caller validates the inputs beforehand.
func Populate(state State, accessToken string, record *hearing.OnlineHearing, tya string) State {
	state.AccessToken = accessToken
	state.Hearing = record
	state.TYA = tya
	if record != nil {
		state.AppealType = record.HearingType()
	}
	return state
}
