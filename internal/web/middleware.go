package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/appealtrack/portal/internal/notify"
	"github.com/appealtrack/portal/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const (
	contextValueSession           contextKey = "session"
	contextValueNotificationToken contextKey = "notification_token"
)

var sessionTokenCookieName = "session_token"

// browserSession couples a live session state with the raw cookie token identifying it
type browserSession struct {
	rawToken string
	state    *session.State
}

// MiddlewareRequestID tags every request with a correlation ID for diagnostics
func (service *Service) MiddlewareRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		id := uuid.NewString()
		writer.Header().Set("X-Request-Id", id)
		log.Debug().Str("request_id", id).Str("method", request.Method).Str("path", request.URL.Path).Msg("request")
		next.ServeHTTP(writer, request)
	})
}

// MiddlewareNoCache forbids caching of any portal page
func (service *Service) MiddlewareNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Cache-Control", "no-cache, max-age=0, must-revalidate, no-store")
		writer.Header().Set("Pragma", "no-cache")
		writer.Header().Set("Expires", "0")
		next.ServeHTTP(writer, request)
	})
}

// MiddlewareVerifySession makes sure the requesting browser holds a live session.
// Requests without one are sent back to the sign-in entry point.
// The session itself is injected into the request context.
func (service *Service) MiddlewareVerifySession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		cookie, err := request.Cookie(sessionTokenCookieName)
		if err != nil {
			http.Redirect(writer, request, PathSignIn, http.StatusFound)
			return
		}

		record, err := service.Sessions.GetByRawToken(request.Context(), cookie.Value)
		if err != nil {
			service.renderer.RenderInternalError(writer, err)
			return
		}
		if record == nil {
			http.Redirect(writer, request, PathSignIn, http.StatusFound)
			return
		}

		ses := &browserSession{
			rawToken: cookie.Value,
			state:    record.State,
		}
		request = request.WithContext(context.WithValue(request.Context(), contextValueSession, ses))
		next(writer, request)
	}
}

// MiddlewareCheckDecision diverts the user to the tribunal view page while a
// tribunal view awaits their response
func (service *Service) MiddlewareCheckDecision(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ses, ok := request.Context().Value(contextValueSession).(*browserSession)
		if !ok {
			service.renderer.RenderInternalError(writer, errors.New("decision check without session verification"))
			return
		}
		if ses.state.Hearing != nil && ses.state.Hearing.HasTribunalView() && !ses.state.TribunalViewAccepted {
			http.Redirect(writer, request, PathTribunalView, http.StatusFound)
			return
		}
		next(writer, request)
	}
}

// MiddlewareVerifyNotificationToken validates the signed notification token in the URL
// and injects its contents into the request context
func (service *Service) MiddlewareVerifyNotificationToken(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		token, err := service.Tokens.Verify(chi.URLParam(request, "mactoken"))
		if err != nil {
			if errors.Is(err, notify.ErrTokenInvalid) || errors.Is(err, notify.ErrTokenExpired) {
				service.renderer.RenderNotFound(writer, nil)
				return
			}
			service.renderer.RenderInternalError(writer, err)
			return
		}
		request = request.WithContext(context.WithValue(request.Context(), contextValueNotificationToken, token))
		next(writer, request)
	}
}

// requestSession extracts the browser session injected by MiddlewareVerifySession
func requestSession(request *http.Request) *browserSession {
	ses, _ := request.Context().Value(contextValueSession).(*browserSession)
	return ses
}

// requestNotificationToken extracts the notification token injected by MiddlewareVerifyNotificationToken
func requestNotificationToken(request *http.Request) *notify.Token {
	token, _ := request.Context().Value(contextValueNotificationToken).(*notify.Token)
	return token
}

// requestProtocol determines the scheme the browser used, honouring a forwarding proxy
func requestProtocol(request *http.Request) string {
	if proto := request.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if request.TLS != nil {
		return "https"
	}
	return "http"
}

// sessionExpiry computes the unix expiry timestamp for a newly created session
func (service *Service) sessionExpiry() int64 {
	return time.Now().Add(service.Config.SessionLifetime).Unix()
}
