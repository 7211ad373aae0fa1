package web

import (
	"net/http"
	"time"

	"github.com/appealtrack/portal/internal/hearing"
)

// respondByDays is the number of days the appellant has to respond to a tribunal view
const respondByDays = 7

type tribunalViewData struct {
	Decision  *hearing.Decision
	RespondBy string
	Error     string
}

// respondByDate computes the response deadline from the decision state change timestamp
func respondByDate(decisionStateDatetime string) string {
	issued, err := time.Parse(time.RFC3339, decisionStateDatetime)
	if err != nil {
		return ""
	}
	return issued.UTC().AddDate(0, 0, respondByDays).Format(time.RFC3339)
}

// EndpointGetTribunalView handles the 'GET /tribunal-view' endpoint
func (service *Service) EndpointGetTribunalView(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := ses.state.Hearing

	if record == nil || !record.HasTribunalView() {
		http.Redirect(writer, request, PathSignOut, http.StatusFound)
		return
	}
	service.renderer.Render(writer, http.StatusOK, "tribunal-view.html", tribunalViewData{
		Decision:  record.Decision,
		RespondBy: respondByDate(record.Decision.DecisionStateDatetime),
	})
}

// EndpointPostTribunalView handles the 'POST /tribunal-view' endpoint
func (service *Service) EndpointPostTribunalView(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := ses.state.Hearing

	if record == nil || !record.HasTribunalView() {
		http.Redirect(writer, request, PathSignOut, http.StatusFound)
		return
	}

	acceptView := request.PostFormValue("accept-view")
	if message := validateAcceptView(acceptView); message != "" {
		service.renderer.Render(writer, http.StatusOK, "tribunal-view.html", tribunalViewData{
			Decision:  record.Decision,
			RespondBy: respondByDate(record.Decision.DecisionStateDatetime),
			Error:     message,
		})
		return
	}

	if acceptView == "yes" {
		state := *ses.state
		state.TribunalViewAccepted = true
		if err := service.Sessions.Update(request.Context(), ses.rawToken, &state); err != nil {
			service.renderer.RenderInternalError(writer, err)
			return
		}
		http.Redirect(writer, request, PathTribunalViewAccepted, http.StatusFound)
		return
	}
	http.Redirect(writer, request, PathHearingConfirm, http.StatusFound)
}

// EndpointTribunalViewAccepted handles the 'GET /tribunal-view-accepted' endpoint
func (service *Service) EndpointTribunalViewAccepted(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "tribunal-view-accepted.html", nil)
}

// EndpointHearingConfirm handles the 'GET /hearing-confirm' endpoint
func (service *Service) EndpointHearingConfirm(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "hearing-confirm.html", nil)
}
