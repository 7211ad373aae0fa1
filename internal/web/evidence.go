package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/appealtrack/portal/internal/evidence"
	"github.com/appealtrack/portal/internal/hearing"
	"github.com/go-chi/chi/v5"
)

// maxEvidenceUploadBytes bounds a single evidence upload
const maxEvidenceUploadBytes = 10 << 20

type evidencePageData struct {
	Evidence []*evidence.Descriptor
	Error    string
}

// sessionHearing returns the hearing attached to the session.
// Sessions are only ever created around a decoded hearing, so an absent one
// means the session is unusable; the caller is signed out and nil is returned.
func (service *Service) sessionHearing(writer http.ResponseWriter, request *http.Request) *hearing.OnlineHearing {
	ses := requestSession(request)
	if ses.state.Hearing == nil {
		http.Redirect(writer, request, PathSignOut, http.StatusFound)
		return nil
	}
	return ses.state.Hearing
}

// EndpointGetEvidence handles the 'GET /evidence' endpoint
func (service *Service) EndpointGetEvidence(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	descriptors, err := service.Evidence.List(request.Context(), record.OnlineHearingID, ses.state.AccessToken)
	if err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	service.renderer.Render(writer, http.StatusOK, "evidence.html", evidencePageData{
		Evidence: descriptors,
		Error:    request.URL.Query().Get("error"),
	})
}

// EndpointPostStatement handles the 'POST /evidence/statement' endpoint
func (service *Service) EndpointPostStatement(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	statement := request.PostFormValue("statement")
	if message := validateRequired(statement, "Enter your statement"); message != "" {
		service.redirectEvidenceError(writer, request, message)
		return
	}
	if err := service.Evidence.SaveStatement(request.Context(), record.OnlineHearingID, statement, ses.state.AccessToken); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	http.Redirect(writer, request, PathEvidence, http.StatusFound)
}

// EndpointPostEvidenceUpload handles the 'POST /evidence/upload' endpoint
func (service *Service) EndpointPostEvidenceUpload(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	if err := request.ParseMultipartForm(maxEvidenceUploadBytes); err != nil {
		service.redirectEvidenceError(writer, request, "Choose a file smaller than 10MB")
		return
	}
	file, header, err := request.FormFile("file")
	if err != nil {
		service.redirectEvidenceError(writer, request, "Choose a file to upload")
		return
	}
	defer file.Close()

	if _, err := service.Evidence.Upload(request.Context(), record.OnlineHearingID, header.Filename, file, ses.state.AccessToken); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	http.Redirect(writer, request, PathEvidence, http.StatusFound)
}

// EndpointPostEvidenceRemove handles the 'POST /evidence/{id}/remove' endpoint
func (service *Service) EndpointPostEvidenceRemove(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	if err := service.Evidence.Remove(request.Context(), record.OnlineHearingID, chi.URLParam(request, "id"), ses.state.AccessToken); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	http.Redirect(writer, request, PathEvidence, http.StatusFound)
}

// EndpointPostEvidenceSubmit handles the 'POST /evidence/submit' endpoint
func (service *Service) EndpointPostEvidenceSubmit(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	description := request.PostFormValue("description")
	if message := validateRequired(description, "Describe the evidence you are submitting"); message != "" {
		service.redirectEvidenceError(writer, request, message)
		return
	}
	if err := service.Evidence.Submit(request.Context(), record.OnlineHearingID, description, ses.state.AccessToken); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	http.Redirect(writer, request, PathTaskList, http.StatusFound)
}

// EndpointGetCoversheet handles the 'GET /evidence/coversheet' endpoint
func (service *Service) EndpointGetCoversheet(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := service.sessionHearing(writer, request)
	if record == nil {
		return
	}

	caseID := strconv.FormatInt(record.CaseID, 10)
	coversheet, err := service.Evidence.Coversheet(request.Context(), caseID, ses.state.AccessToken)
	if err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	writer.Header().Set("Content-Type", "application/pdf")
	writer.Header().Set("Content-Disposition", `attachment; filename="evidence-coversheet.pdf"`)
	writer.Write(coversheet)
}

func (service *Service) redirectEvidenceError(writer http.ResponseWriter, request *http.Request, message string) {
	http.Redirect(writer, request, PathEvidence+"?error="+url.QueryEscape(message), http.StatusFound)
}
