package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type manageEmailsData struct {
	MacToken string
	AppealID string
	Email    string
	Error    string
}

// EndpointGetManageEmails handles the 'GET /manage-email-notifications/{mactoken}' endpoint
func (service *Service) EndpointGetManageEmails(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "manage-emails.html", manageEmailsData{
		MacToken: chi.URLParam(request, "mactoken"),
	})
}

// EndpointPostManageEmails handles the 'POST /manage-email-notifications/{mactoken}' endpoint
// and routes the selected action to its confirmation page
func (service *Service) EndpointPostManageEmails(writer http.ResponseWriter, request *http.Request) {
	mactoken := chi.URLParam(request, "mactoken")
	base := "/manage-email-notifications/" + mactoken

	switch request.PostFormValue("type") {
	case "changeEmail":
		http.Redirect(writer, request, base+"/change", http.StatusFound)
	case "stopEmail":
		http.Redirect(writer, request, base+"/stop", http.StatusFound)
	default:
		service.renderer.Render(writer, http.StatusBadRequest, "manage-emails.html", manageEmailsData{
			MacToken: mactoken,
			Error:    "Select an option",
		})
	}
}

// EndpointGetEmailsStop handles the 'GET /manage-email-notifications/{mactoken}/stop' endpoint
func (service *Service) EndpointGetEmailsStop(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "emails-stop.html", manageEmailsData{
		MacToken: chi.URLParam(request, "mactoken"),
	})
}

// EndpointGetEmailsStopConfirm handles the 'GET /manage-email-notifications/{mactoken}/stopconfirm' endpoint
func (service *Service) EndpointGetEmailsStopConfirm(writer http.ResponseWriter, request *http.Request) {
	token := requestNotificationToken(request)

	if err := service.Subscriptions.Unsubscribe(request.Context(), token.AppealID, token.SubscriptionID); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	service.renderer.Render(writer, http.StatusOK, "emails-stop-confirmed.html", manageEmailsData{
		MacToken: chi.URLParam(request, "mactoken"),
		AppealID: token.AppealID,
	})
}

// EndpointGetEmailChange handles the 'GET /manage-email-notifications/{mactoken}/change' endpoint
func (service *Service) EndpointGetEmailChange(writer http.ResponseWriter, request *http.Request) {
	service.renderer.Render(writer, http.StatusOK, "email-address-change.html", manageEmailsData{
		MacToken: chi.URLParam(request, "mactoken"),
	})
}

// EndpointPostEmailChange handles the 'POST /manage-email-notifications/{mactoken}/change' endpoint
func (service *Service) EndpointPostEmailChange(writer http.ResponseWriter, request *http.Request) {
	token := requestNotificationToken(request)
	mactoken := chi.URLParam(request, "mactoken")

	email := request.PostFormValue("email")
	if message := validateEmail(email); message != "" {
		service.renderer.Render(writer, http.StatusBadRequest, "email-address-change.html", manageEmailsData{
			MacToken: mactoken,
			Error:    message,
		})
		return
	}

	if err := service.Subscriptions.ChangeEmail(request.Context(), token.AppealID, token.SubscriptionID, email); err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	service.renderer.Render(writer, http.StatusOK, "email-address-change-confirmed.html", manageEmailsData{
		MacToken: mactoken,
		Email:    email,
	})
}
