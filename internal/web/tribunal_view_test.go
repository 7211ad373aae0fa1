package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tribunalViewSession(t *testing.T, service *Service, sessions session.Storage) string {
	t.Helper()

	record := oralHearing()
	record.Decision = &hearing.Decision{
		DecisionState:         hearing.DecisionStateTribunalViewIssued,
		DecisionStateDatetime: "2026-08-10T12:00:00Z",
	}
	rawToken, err := sessions.Create(context.Background(), &session.State{Hearing: record}, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	return rawToken
}

func postTribunalView(service *Service, rawToken, acceptView string) *httptest.ResponseRecorder {
	form := ""
	if acceptView != "" {
		form = "accept-view=" + acceptView
	}
	request := httptest.NewRequest(http.MethodPost, "/tribunal-view", strings.NewReader(form))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})

	recorder := httptest.NewRecorder()
	service.MiddlewareVerifySession(service.EndpointPostTribunalView)(recorder, request)
	return recorder
}

func TestRespondByDate(t *testing.T) {
	assert.Equal(t, "2026-08-17T12:00:00Z", respondByDate("2026-08-10T12:00:00Z"))
	assert.Empty(t, respondByDate("not a timestamp"))
}

func TestEndpointGetTribunalView(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})
	rawToken := tribunalViewSession(t, service, sessions)

	request := httptest.NewRequest(http.MethodGet, "/tribunal-view", nil)
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
	recorder := httptest.NewRecorder()
	service.MiddlewareVerifySession(service.EndpointGetTribunalView)(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "2026-08-17T12:00:00Z")
}

func TestEndpointGetTribunalView_WithoutView_SignsOut(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})
	rawToken, err := sessions.Create(context.Background(), &session.State{Hearing: oralHearing()}, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/tribunal-view", nil)
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
	recorder := httptest.NewRecorder()
	service.MiddlewareVerifySession(service.EndpointGetTribunalView)(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathSignOut, recorder.Header().Get("Location"))
}

func TestEndpointPostTribunalView_Accept(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})
	rawToken := tribunalViewSession(t, service, sessions)

	recorder := postTribunalView(service, rawToken, "yes")
	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathTribunalViewAccepted, recorder.Header().Get("Location"))

	record, err := sessions.GetByRawToken(context.Background(), rawToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.State.TribunalViewAccepted)
}

func TestEndpointPostTribunalView_Decline(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})
	rawToken := tribunalViewSession(t, service, sessions)

	recorder := postTribunalView(service, rawToken, "no")
	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathHearingConfirm, recorder.Header().Get("Location"))

	record, err := sessions.GetByRawToken(context.Background(), rawToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.False(t, record.State.TribunalViewAccepted)
}

func TestEndpointPostTribunalView_MissingSelection(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})
	rawToken := tribunalViewSession(t, service, sessions)

	recorder := postTribunalView(service, rawToken, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Select yes if you accept")

	record, err := sessions.GetByRawToken(context.Background(), rawToken)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.False(t, record.State.TribunalViewAccepted)
}
