package hearing

// OutcomeKind enumerates the possible results of an online hearing lookup
type OutcomeKind int

const (
	// OutcomeFound indicates exactly one online hearing was found
	OutcomeFound OutcomeKind = iota
	// OutcomeNotFound indicates no online hearing is associated with the lookup identifier
	OutcomeNotFound
	// OutcomeMultipleFound indicates the identifier matches more than one case
	OutcomeMultipleFound
	// OutcomeWrongAppealType indicates a case exists but is not handled by this service
	OutcomeWrongAppealType
	// OutcomeServerError indicates the case API was unavailable or answered with an unexpected status
	OutcomeServerError
)

// Outcome represents the closed, tagged result of an online hearing lookup.
// The raw backend status code never leaves the client; callers branch on the kind
// and must handle all five variants before populating a session.
type Outcome struct {
	Kind    OutcomeKind
	Hearing *OnlineHearing
	Cause   error
}

func (kind OutcomeKind) String() string {
	switch kind {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not found"
	case OutcomeMultipleFound:
		return "multiple found"
	case OutcomeWrongAppealType:
		return "wrong appeal type"
	case OutcomeServerError:
		return "server error"
	}
	return "unknown"
}
