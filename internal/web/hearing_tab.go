package web

import (
	"net/http"

	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/session"
)

type hearingTabData struct {
	HearingInfo  *hearing.Event
	Attending    bool
	Arrangements *hearing.Arrangements
}

// EndpointHearingTab handles the 'GET /hearing' endpoint.
// The tab is hidden for COR appeals and while the manage-your-appeal toggle is off.
func (service *Service) EndpointHearingTab(writer http.ResponseWriter, request *http.Request) {
	ses := requestSession(request)
	record := ses.state.Hearing

	if !ses.state.FeatureToggles.Has(session.FeatureManageYourAppeal) || ses.state.AppealType == hearing.TypeCOR {
		service.renderer.RenderNotFound(writer, nil)
		return
	}

	data := hearingTabData{
		Attending: ses.state.AppealType == hearing.TypeOral,
	}
	if record != nil {
		data.HearingInfo = record.BookedHearingEvent()
		data.Arrangements = record.HearingArrangements
	}
	if data.Arrangements == nil {
		data.Arrangements = &hearing.Arrangements{}
	}
	service.renderer.Render(writer, http.StatusOK, "hearing-tab.html", data)
}
