package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/appealtrack/portal/internal/config"
	"github.com/appealtrack/portal/internal/hearing"
	"github.com/appealtrack/portal/internal/idam"
	"github.com/appealtrack/portal/internal/session"
	"github.com/appealtrack/portal/internal/session/storage/inmem"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdam struct {
	tokenErr      error
	detailsErr    error
	deleteErr     error
	deleteCalls   int
	deletedTokens []string
}

func (fake *fakeIdam) AuthorizeURL(protocol, host, state string) string {
	return "https://idam.example.com/login?redirect_uri=" + url.QueryEscape(protocol+"://"+host+PathIdamCallback) + "&state=" + url.QueryEscape(state)
}

func (fake *fakeIdam) RegisterURL(protocol, host string) string {
	return "https://idam.example.com/users/selfRegister?redirect_uri=" + url.QueryEscape(protocol+"://"+host+PathIdamCallback)
}

func (fake *fakeIdam) GetToken(_ context.Context, code, _, _ string) (string, error) {
	if fake.tokenErr != nil {
		return "", fake.tokenErr
	}
	return "someAccessToken", nil
}

func (fake *fakeIdam) GetUserDetails(_ context.Context, _ string) (*idam.UserDetails, error) {
	if fake.detailsErr != nil {
		return nil, fake.detailsErr
	}
	return &idam.UserDetails{Email: "someEmail@example.com"}, nil
}

func (fake *fakeIdam) DeleteToken(_ context.Context, accessToken string) error {
	fake.deleteCalls++
	fake.deletedTokens = append(fake.deletedTokens, accessToken)
	return fake.deleteErr
}

type fakeHearings struct {
	outcome        hearing.Outcome
	gotIdentifier  string
	gotAccessToken string
}

func (fake *fakeHearings) GetOnlineHearing(_ context.Context, identifier, accessToken string) hearing.Outcome {
	fake.gotIdentifier = identifier
	fake.gotAccessToken = accessToken
	return fake.outcome
}

func (fake *fakeHearings) ExtendDeadline(context.Context, string, string) (*hearing.OnlineHearing, error) {
	return nil, errors.New("not implemented")
}

func (fake *fakeHearings) AssignToCitizen(context.Context, string, string, string, string) (*hearing.OnlineHearing, error) {
	return nil, errors.New("not implemented")
}

type countingStorage struct {
	session.Storage
	terminateCalls int
}

func (storage *countingStorage) TerminateByRawToken(ctx context.Context, rawToken string) error {
	storage.terminateCalls++
	return storage.Storage.TerminateByRawToken(ctx, rawToken)
}

func newTestService(t *testing.T, idamFake *fakeIdam, hearings *fakeHearings) (*Service, *countingStorage) {
	t.Helper()

	driver, err := inmem.New()
	require.NoError(t, err)
	sessions := &countingStorage{Storage: driver}

	renderer, err := NewRenderer()
	require.NoError(t, err)

	return &Service{
		Config: &config.Config{
			BaseAddress:             "http://localhost:3000",
			SessionLifetime:         time.Hour,
			FeatureManageYourAppeal: true,
		},
		Sessions: sessions,
		Idam:     idamFake,
		Hearings: hearings,
		renderer: renderer,
	}, sessions
}

func oralHearing() *hearing.OnlineHearing {
	return &hearing.OnlineHearing{
		OnlineHearingID: "abc-123-def-456",
		CaseReference:   "SC/112/233",
		AppellantName:   "Adam Jenkins",
		AppealDetails:   &hearing.AppealDetails{HearingType: hearing.TypeOral},
	}
}

func TestEndpointSignIn_RedirectsToAuthorize(t *testing.T) {
	service, _ := newTestService(t, &fakeIdam{}, &fakeHearings{})

	recorder := httptest.NewRecorder()
	service.EndpointSignIn(recorder, httptest.NewRequest(http.MethodGet, "/sign-in?tya=tya-number", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	assert.Contains(t, location, "https://idam.example.com/login")
	assert.Contains(t, location, "state=tya-number")
}

func TestEndpointIdamCallback_WithoutCode_ReentersSignIn(t *testing.T) {
	service, _ := newTestService(t, &fakeIdam{}, &fakeHearings{})

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?state=tya-number", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	location := recorder.Header().Get("Location")
	assert.Contains(t, location, "https://idam.example.com/login")
	assert.Contains(t, location, "state=tya-number")
}

func TestEndpointIdamCallback_Found_EstablishesSession(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeFound, Hearing: oralHearing()}}
	service, sessions := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode&state=tya-number", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathTaskList, recorder.Header().Get("Location"))

	assert.Equal(t, "someEmail@example.com", hearings.gotIdentifier)
	assert.Equal(t, "someAccessToken", hearings.gotAccessToken)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, sessionTokenCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	record, err := sessions.GetByRawToken(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "someAccessToken", record.State.AccessToken)
	assert.Equal(t, "tya-number", record.State.TYA)
	assert.Equal(t, "someEmail@example.com", record.State.IdamEmail)
	assert.Equal(t, hearing.TypeOral, record.State.AppealType)
	assert.True(t, record.State.FeatureToggles.Has(session.FeatureManageYourAppeal))
}

func TestEndpointIdamCallback_CaseIDNarrowsLookup(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeFound, Hearing: oralHearing()}}
	service, _ := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode&caseId=someCaseId", nil))

	assert.Equal(t, "someEmail@example.com+someCaseId", hearings.gotIdentifier)
}

func TestEndpointIdamCallback_NotFound(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeNotFound}}
	service, _ := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, errNoAppealHeader)
	assert.Contains(t, body, "you have changed your email address")
	assert.Contains(t, body, "https://idam.example.com/users/selfRegister")
}

func TestEndpointIdamCallback_MultipleFound(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeMultipleFound}}
	service, _ := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, errTechnicalHeader)
	assert.NotContains(t, body, "Create a new account")
}

func TestEndpointIdamCallback_WrongAppealType(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeWrongAppealType}}
	service, _ := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), errWrongServiceHeader)
}

func TestEndpointIdamCallback_ServerError(t *testing.T) {
	hearings := &fakeHearings{outcome: hearing.Outcome{Kind: hearing.OutcomeServerError, Cause: errors.New("case api is down")}}
	service, _ := newTestService(t, &fakeIdam{}, hearings)

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "technical difficulties")
}

func TestEndpointIdamCallback_TokenExchangeFailure(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{tokenErr: errors.New("exchange failed")}, &fakeHearings{})

	recorder := httptest.NewRecorder()
	service.EndpointIdamCallback(recorder, httptest.NewRequest(http.MethodGet, "/idam-callback?code=someCode", nil))

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Zero(t, sessions.terminateCalls)
	assert.Empty(t, recorder.Result().Cookies())
}

func establishSession(t *testing.T, service *Service, sessions session.Storage) string {
	t.Helper()
	rawToken, err := sessions.Create(context.Background(), &session.State{AccessToken: "someAccessToken"}, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	return rawToken
}

func TestEndpointSignOut_DestroysSessionOnce(t *testing.T) {
	idamFake := &fakeIdam{}
	service, sessions := newTestService(t, idamFake, &fakeHearings{})
	rawToken := establishSession(t, service, sessions)

	request := httptest.NewRequest(http.MethodGet, "/sign-out", nil)
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
	recorder := httptest.NewRecorder()
	service.EndpointSignOut(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathSignIn, recorder.Header().Get("Location"))

	assert.Equal(t, 1, idamFake.deleteCalls)
	assert.Equal(t, []string{"someAccessToken"}, idamFake.deletedTokens)
	assert.Equal(t, 1, sessions.terminateCalls)

	record, err := sessions.GetByRawToken(context.Background(), rawToken)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEndpointSignOut_TokenDeletionFailureStillDestroysSession(t *testing.T) {
	idamFake := &fakeIdam{deleteErr: errors.New("idam is down")}
	service, sessions := newTestService(t, idamFake, &fakeHearings{})
	rawToken := establishSession(t, service, sessions)

	request := httptest.NewRequest(http.MethodGet, "/sign-out", nil)
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
	recorder := httptest.NewRecorder()
	service.EndpointSignOut(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, 1, idamFake.deleteCalls)
	assert.Equal(t, 1, sessions.terminateCalls)

	record, err := sessions.GetByRawToken(context.Background(), rawToken)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestEndpointSignOut_HonoursRedirectTarget(t *testing.T) {
	service, _ := newTestService(t, &fakeIdam{}, &fakeHearings{})

	recorder := httptest.NewRecorder()
	service.EndpointSignOut(recorder, httptest.NewRequest(http.MethodGet, "/sign-out?redirectUrl=/cookie-privacy", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/cookie-privacy", recorder.Header().Get("Location"))
}

func TestEndpointSignOut_WithoutSessionStillRedirects(t *testing.T) {
	idamFake := &fakeIdam{}
	service, sessions := newTestService(t, idamFake, &fakeHearings{})

	recorder := httptest.NewRecorder()
	service.EndpointSignOut(recorder, httptest.NewRequest(http.MethodGet, "/sign-out", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathSignIn, recorder.Header().Get("Location"))
	assert.Zero(t, idamFake.deleteCalls)
	assert.Zero(t, sessions.terminateCalls)
}

func TestEndpointValidateSurname_RedirectsToSignIn(t *testing.T) {
	service, _ := newTestService(t, &fakeIdam{}, &fakeHearings{})

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("tya", "tya-number")
	request := httptest.NewRequest(http.MethodGet, "/validate-surname/tya-number/trackyourappeal", nil)
	request = request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, rctx))

	recorder := httptest.NewRecorder()
	service.EndpointValidateSurname(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathSignIn+"?tya=tya-number", recorder.Header().Get("Location"))
}

func TestMiddlewareVerifySession_RedirectsAnonymousRequests(t *testing.T) {
	service, _ := newTestService(t, &fakeIdam{}, &fakeHearings{})

	called := false
	handler := service.MiddlewareVerifySession(func(http.ResponseWriter, *http.Request) { called = true })

	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(http.MethodGet, "/task-list", nil))

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathSignIn, recorder.Header().Get("Location"))
	assert.False(t, called)
}

func TestMiddlewareCheckDecision_DivertsToTribunalView(t *testing.T) {
	service, sessions := newTestService(t, &fakeIdam{}, &fakeHearings{})

	record := oralHearing()
	record.Decision = &hearing.Decision{DecisionState: hearing.DecisionStateTribunalViewIssued}
	rawToken, err := sessions.Create(context.Background(), &session.State{Hearing: record}, time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)

	handler := service.MiddlewareVerifySession(service.MiddlewareCheckDecision(func(http.ResponseWriter, *http.Request) {
		t.Fatal("the page handler must not run while a tribunal view is pending")
	}))

	request := httptest.NewRequest(http.MethodGet, "/task-list", nil)
	request.AddCookie(&http.Cookie{Name: sessionTokenCookieName, Value: rawToken})
	recorder := httptest.NewRecorder()
	handler(recorder, request)

	require.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, PathTribunalView, recorder.Header().Get("Location"))
}
