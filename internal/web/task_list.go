package web

import (
	"net/http"

	"github.com/appealtrack/portal/internal/hearing"
)

type taskListData struct {
	Hearing *hearing.OnlineHearing
	TYA     string
}

// EndpointTaskList handles the 'GET /task-list' endpoint
func (service *Service) EndpointTaskList(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	service.renderer.Render(writer, http.StatusOK, "task-list.html", taskListData{
		Hearing: ses.state.Hearing,
		TYA:     ses.state.TYA,
	})
}

// EndpointCookiePrivacy handles the 'GET /cookie-privacy' endpoint
func (service *Service) EndpointCookiePrivacy(writer http.ResponseWriter, _ *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "cookie-privacy.html", nil)
}
