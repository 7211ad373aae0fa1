package web

// Route paths of the portal
const (
	PathRoot                 = "/"
	PathSignIn               = "/sign-in"
	PathRegister             = "/register"
	PathSignOut              = "/sign-out"
	PathIdamCallback         = "/idam-callback"
	PathTaskList             = "/task-list"
	PathHearing              = "/hearing"
	PathTribunalView         = "/tribunal-view"
	PathTribunalViewAccepted = "/tribunal-view-accepted"
	PathHearingConfirm       = "/hearing-confirm"
	PathAssignCase           = "/assign-case"
	PathEvidence             = "/evidence"
	PathCookiePrivacy        = "/cookie-privacy"
	PathValidateSurname      = "/validate-surname/{tya}/trackyourappeal"
	PathManageEmails         = "/manage-email-notifications/{mactoken}"
)
