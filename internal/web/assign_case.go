package web

import (
	"net/http"
)

type assignCaseData struct {
	Error string
}

// EndpointGetAssignCase handles the 'GET /assign-case' endpoint
func (service *Service) EndpointGetAssignCase(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "assign-case.html", assignCaseData{
		Error: request.URL.Query().Get("error"),
	})
}

// EndpointPostAssignCase handles the 'POST /assign-case' endpoint.
// The postcode is checked against the case identified by the session's tracking number;
// on success the case is associated with the IDAM user and stored in the session.
func (service *Service) EndpointPostAssignCase(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)

	postcode := request.PostFormValue("postcode")
	if message := validatePostcode(postcode); message != "" {
		service.renderer.Render(writer, http.StatusOK, "assign-case.html", assignCaseData{Error: message})
		return
	}

	record, err := service.Hearings.AssignToCitizen(request.Context(), ses.state.IdamEmail, ses.state.TYA, postcode, ses.state.AccessToken)
	if err != nil {
		service.renderer.Render(writer, http.StatusOK, "assign-case.html", assignCaseData{
			Error: "We could not find an appeal matching that postcode.",
		})
		return
	}

	state := *ses.state
	state.Hearing = record
	state.AppealType = record.HearingType()
	if err := service.Sessions.Update(request.Context(), ses.rawToken, &state); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	http.Redirect(writer, request, PathTaskList, http.StatusFound)
}
