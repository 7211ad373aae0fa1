package web

import (
	"context"
	"io"
	"net/http"

	"github.com/appealtrack/portal/internal/config"
	"github.com/appealtrack/portal/internal/evidence"
	"github.com/appealtrack/portal/internal/function"
	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/idam"
	"github.com/appealtrack/portal/internal/notify"
	"github.com/appealtrack/portal/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// IdentityProvider is the surface of the IDAM client the controllers depend on
type IdentityProvider interface {
	AuthorizeURL(protocol, host, state string) string
	RegisterURL(protocol, host string) string
	GetToken(ctx context.Context, code, protocol, host string) (string, error)
	GetUserDetails(ctx context.Context, accessToken string) (*idam.UserDetails, error)
	DeleteToken(ctx context.Context, accessToken string) error
}

// HearingProvider is the surface of the case API client the controllers depend on
type HearingProvider interface {
	GetOnlineHearing(ctx context.Context, identifier, accessToken string) hearing.Outcome
	ExtendDeadline(ctx context.Context, hearingID, accessToken string) (*hearing.OnlineHearing, error)
	AssignToCitizen(ctx context.Context, email, tya, postcode, accessToken string) (*hearing.OnlineHearing, error)
}

// EvidenceProvider is the surface of the additional evidence client the controllers depend on
type EvidenceProvider interface {
	SaveStatement(ctx context.Context, hearingID, statement, accessToken string) error
	Upload(ctx context.Context, hearingID, fileName string, file io.Reader, accessToken string) (*evidence.Descriptor, error)
	List(ctx context.Context, hearingID, accessToken string) ([]*evidence.Descriptor, error)
	Remove(ctx context.Context, hearingID, evidenceID, accessToken string) error
	Submit(ctx context.Context, hearingID, description, accessToken string) error
	Coversheet(ctx context.Context, caseID, accessToken string) ([]byte, error)
}

// SubscriptionProvider is the surface of the tribunals API client the notification pages depend on
type SubscriptionProvider interface {
	ChangeEmail(ctx context.Context, appealID, subscriptionID, email string) error
	Unsubscribe(ctx context.Context, appealID, subscriptionID string) error
}

// Service represents the portal web service
type Service struct {
	server *http.Server

	Config *config.Config

	Sessions      session.Storage
	Idam          IdentityProvider
	Hearings      HearingProvider
	Evidence      EvidenceProvider
	Subscriptions SubscriptionProvider
	Tokens        *notify.TokenCodec

	renderer     *Renderer
	loginLimiter *loginLimiter
}

// Startup starts up the portal web service
func (service *Service) Startup() error {
	// Create the HTML renderer
	renderer, err := NewRenderer()
	if err != nil {
		return err
	}
	renderer.InternalErrorHook = func(err error) {
		log.Error().Err(err).Msg("the portal experienced an unexpected error")
	}
	service.renderer = renderer

	// Create the per-IP sign-in rate limiter
	service.loginLimiter = newLoginLimiter()

	// Start up the server
	server := &http.Server{
		Addr:    service.Config.ListenAddress,
		Handler: service.router(),
	}
	service.server = server
	return server.ListenAndServe()
}

// router assembles the HTTP router with all endpoints and middleware chains registered
func (service *Service) router() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RedirectSlashes)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{service.Config.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	router.Use(service.MiddlewareRequestID)
	router.Use(service.MiddlewareNoCache)
	router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
		service.renderer.RenderNotFound(writer, nil)
	})

	// Register the login controller endpoints
	router.Get(PathRoot, service.EndpointRedirectToSignIn)
	router.Get(PathSignIn, function.Nest[http.HandlerFunc](service.EndpointSignIn, service.MiddlewareRateLimitLogin))
	router.Get(PathRegister, service.EndpointRegister)
	router.Get(PathIdamCallback, function.Nest[http.HandlerFunc](service.EndpointIdamCallback, service.MiddlewareRateLimitLogin))
	router.Get(PathSignOut, service.EndpointSignOut)
	router.Get(PathValidateSurname, service.EndpointValidateSurname)

	// Register the appeal page endpoints
	router.Get(PathTaskList, function.Nest[http.HandlerFunc](service.EndpointTaskList, service.MiddlewareVerifySession, service.MiddlewareCheckDecision))
	router.Get(PathHearing, function.Nest[http.HandlerFunc](service.EndpointHearingTab, service.MiddlewareVerifySession, service.MiddlewareCheckDecision))
	router.Get(PathTribunalView, function.Nest[http.HandlerFunc](service.EndpointGetTribunalView, service.MiddlewareVerifySession))
	router.Post(PathTribunalView, function.Nest[http.HandlerFunc](service.EndpointPostTribunalView, service.MiddlewareVerifySession))
	router.Get(PathTribunalViewAccepted, function.Nest[http.HandlerFunc](service.EndpointTribunalViewAccepted, service.MiddlewareVerifySession))
	router.Get(PathHearingConfirm, function.Nest[http.HandlerFunc](service.EndpointHearingConfirm, service.MiddlewareVerifySession))
	router.Get(PathAssignCase, function.Nest[http.HandlerFunc](service.EndpointGetAssignCase, service.MiddlewareVerifySession))
	router.Post(PathAssignCase, function.Nest[http.HandlerFunc](service.EndpointPostAssignCase, service.MiddlewareVerifySession))

	// Register the additional evidence endpoints
	router.Get(PathEvidence, function.Nest[http.HandlerFunc](service.EndpointGetEvidence, service.MiddlewareVerifySession, service.MiddlewareCheckDecision))
	router.Post(PathEvidence+"/statement", function.Nest[http.HandlerFunc](service.EndpointPostStatement, service.MiddlewareVerifySession))
	router.Post(PathEvidence+"/upload", function.Nest[http.HandlerFunc](service.EndpointPostEvidenceUpload, service.MiddlewareVerifySession))
	router.Post(PathEvidence+"/{id}/remove", function.Nest[http.HandlerFunc](service.EndpointPostEvidenceRemove, service.MiddlewareVerifySession))
	router.Post(PathEvidence+"/submit", function.Nest[http.HandlerFunc](service.EndpointPostEvidenceSubmit, service.MiddlewareVerifySession))
	router.Get(PathEvidence+"/coversheet", function.Nest[http.HandlerFunc](service.EndpointGetCoversheet, service.MiddlewareVerifySession))

	// Register the email notification endpoints
	router.Get(PathManageEmails, function.Nest[http.HandlerFunc](service.EndpointGetManageEmails, service.MiddlewareVerifyNotificationToken))
	router.Post(PathManageEmails, function.Nest[http.HandlerFunc](service.EndpointPostManageEmails, service.MiddlewareVerifyNotificationToken))
	router.Get(PathManageEmails+"/stop", function.Nest[http.HandlerFunc](service.EndpointGetEmailsStop, service.MiddlewareVerifyNotificationToken))
	router.Get(PathManageEmails+"/stopconfirm", function.Nest[http.HandlerFunc](service.EndpointGetEmailsStopConfirm, service.MiddlewareVerifyNotificationToken))
	router.Get(PathManageEmails+"/change", function.Nest[http.HandlerFunc](service.EndpointGetEmailChange, service.MiddlewareVerifyNotificationToken))
	router.Post(PathManageEmails+"/change", function.Nest[http.HandlerFunc](service.EndpointPostEmailChange, service.MiddlewareVerifyNotificationToken))

	// Register the static endpoints
	router.Get(PathCookiePrivacy, service.EndpointCookiePrivacy)
	router.Get("/robots.txt", func(writer http.ResponseWriter, _ *http.Request) {
		writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
		writer.Write([]byte("User-agent: *\nDisallow: /\n"))
	})

	return router
}

// Shutdown shuts down the portal web service
func (service *Service) Shutdown() {
	if service.server != nil {
		service.server.Close()
		service.server = nil
	}
	if service.loginLimiter != nil {
		service.loginLimiter.stop()
		service.loginLimiter = nil
	}
}
