package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appealtrack/portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceEndpoints_WithoutHearing_SignOut(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})

	rawToken, err := sessions.Create(context.Background(), &session.State{AccessToken: "someAccessToken"}, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)

	endpoints := map[string]http.HandlerFunc{
		"list":       service.EndpointGetEvidence,
		"statement":  service.EndpointPostStatement,
		"upload":     service.EndpointPostEvidenceUpload,
		"remove":     service.EndpointPostEvidenceRemove,
		"submit":     service.EndpointPostEvidenceSubmit,
		"coversheet": service.EndpointGetCoversheet,
	}
	for name, endpoint := range endpoints {
		t.Run(name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/evidence", nil)
			request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
			recorder := httptest.NewRecorder()
			service.MiddlewareVerifySession(endpoint)(recorder, request)

			require.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, PathSignOut, recorder.Header().Get("Location"))
		})
	}
}
