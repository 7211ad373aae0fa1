package web

import (
	"html/template"
	"net/http"

	"github.com/appealtrack/portal/internal/bitflag"
	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Fixed copy of the load-case error pages
var (
	errNoAppealHeader = "There is no benefit appeal associated with this email address"
	errNoAppealBody   = template.HTML("<p>Either you have changed your email address or you do not have an active benefit appeal.</p>" +
		"<p>If you have changed your email address then you need to create a new account using your new email address:</p>")

	errTechnicalHeader = "There has been a technical problem"
	errTechnicalBody   = template.HTML("<p>We cannot load your benefit appeal at the moment. Please try again later.</p>")

	errWrongServiceHeader = "You cannot access this service"
	errWrongServiceBody   = template.HTML("<p>Please check any emails or letters you have received about your benefit appeal if you would like an update.</p>")
)

type loadCaseErrorData struct {
	ErrorHeader string
	ErrorBody   template.HTML
	RegisterURL string
}

// EndpointRedirectToSignIn handles the 'GET /' endpoint
func (service *Service) EndpointRedirectToSignIn(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, PathSignIn, http.StatusFound)
}

// EndpointSignIn handles the 'GET /sign-in' endpoint.
// Unauthenticated requests are sent to the identity provider, carrying the appeal
// tracking number through the redirect round-trip as the OAuth2 state.
func (service *Service) EndpointSignIn(writer http.ResponseWriter, request *http.Request) {
	state := request.URL.Query().Get("tya")
	if state == "" {
		state = request.URL.Query().Get("state")
	}
	http.Redirect(writer, request, service.Idam.AuthorizeURL(requestProtocol(request), request.Host, state), http.StatusFound)
}

// EndpointRegister handles the 'GET /register' endpoint
func (service *Service) EndpointRegister(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, service.Idam.RegisterURL(requestProtocol(request), request.Host), http.StatusFound)
}

// EndpointValidateSurname handles the legacy 'GET /validate-surname/{tya}/trackyourappeal' endpoint
func (service *Service) EndpointValidateSurname(writer http.ResponseWriter, request *http.Request) {
	http.Redirect(writer, request, PathSignIn+"?tya="+chi.URLParam(request, "tya"), http.StatusFound)
}

// EndpointIdamCallback handles the 'GET /idam-callback' endpoint.
// Requests without an authorization code re-enter the anonymous flow; requests with one
// drive the strictly sequential token exchange, identity fetch and hearing lookup.
func (service *Service) EndpointIdamCallback(writer http.ResponseWriter, request *http.Request) {
	code := request.URL.Query().Get("code")
	if code == "" {
		service.EndpointSignIn(writer, request)
		return
	}

	protocol := requestProtocol(request)
	host := request.Host

	accessToken, err := service.Idam.GetToken(request.Context(), code, protocol, host)
	if err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}
	details, err := service.Idam.GetUserDetails(request.Context(), accessToken)
	if err != nil {
		service.renderer.RenderInternalError(writer, err)
		return
	}

	// A caseId accompanying the callback narrows the lookup down to a single case
	identifier := details.Email
	if caseID := request.URL.Query().Get("caseId"); caseID != "" {
		identifier += "+" + caseID
	}

	outcome := service.Hearings.GetOnlineHearing(request.Context(), identifier, accessToken)
	switch outcome.Kind {
	case hearing.OutcomeFound:
		state := session.Populate(session.State{
			IdamEmail:      details.Email,
			FeatureToggles: service.featureToggles(),
		}, accessToken, outcome.Hearing, request.URL.Query().Get("state"))

		rawToken, err := service.Sessions.Create(request.Context(), &state, service.sessionExpiry())
		if err != nil {
			service.renderer.RenderInternalError(writer, err)
			return
		}
		service.setSessionCookie(writer, rawToken)
		http.Redirect(writer, request, PathTaskList, http.StatusFound)
	case hearing.OutcomeNotFound:
		service.renderer.Render(writer, http.StatusOK, "load-case-error.html", loadCaseErrorData{
			ErrorHeader: errNoAppealHeader,
			ErrorBody:   errNoAppealBody,
			RegisterURL: service.Idam.RegisterURL(protocol, host),
		})
	case hearing.OutcomeMultipleFound:
		service.renderer.Render(writer, http.StatusOK, "load-case-error.html", loadCaseErrorData{
			ErrorHeader: errTechnicalHeader,
			ErrorBody:   errTechnicalBody,
		})
	case hearing.OutcomeWrongAppealType:
		service.renderer.Render(writer, http.StatusOK, "load-case-error.html", loadCaseErrorData{
			ErrorHeader: errWrongServiceHeader,
			ErrorBody:   errWrongServiceBody,
		})
	case hearing.OutcomeServerError:
		service.renderer.RenderInternalError(writer, outcome.Cause)
	default:
		service.renderer.RenderInternalError(writer, outcome.Cause)
	}
}

// EndpointSignOut handles the 'GET /sign-out' endpoint.
// The provider-side token deletion is best-effort; the local session is destroyed
// exactly once regardless of its outcome.
func (service *Service) EndpointSignOut(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(sessionTokenCookieName); err == nil {
		record, err := service.Sessions.GetByRawToken(request.Context(), cookie.Value)
		if err != nil {
			service.renderer.RenderInternalError(writer, err)
			return
		}
		if record != nil && record.State.AccessToken != "" {
			if err := service.Idam.DeleteToken(request.Context(), record.State.AccessToken); err != nil {
				log.Warn().Err(err).Msg("could not delete the IDAM token on sign-out")
			}
		}
		if err := service.Sessions.TerminateByRawToken(request.Context(), cookie.Value); err != nil {
			service.renderer.RenderInternalError(writer, err)
			return
		}
		service.unsetSessionCookie(writer)
	}

	target := request.URL.Query().Get("redirectUrl")
	if target == "" {
		target = PathSignIn
	}
	http.Redirect(writer, request, target, http.StatusFound)
}

func (service *Service) featureToggles() bitflag.Container {
	toggles := bitflag.EmptyContainer
	if service.Config.FeatureManageYourAppeal {
		toggles = toggles.With(session.FeatureManageYourAppeal)
	}
	if service.Config.FeatureWelsh {
		toggles = toggles.With(session.FeatureWelsh)
	}
	return toggles
}

func (service *Service) setSessionCookie(writer http.ResponseWriter, rawToken string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     sessionTokenCookieName,
		Value:    rawToken,
		Path:     "/",
		MaxAge:   int(service.Config.SessionLifetime.Seconds()),
		Secure:   service.Config.IsSecure(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (service *Service) unsetSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     sessionTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
