package hearing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var basePath = "/continuous-online-hearings"

// Client looks up and manipulates online hearing records at the case API
type Client struct {
	apiURL           string
	serviceAuthToken string
	http             *http.Client
}

// NewClient creates a new case API client.
// The service auth token is sent as the ServiceAuthorization header on every call.
func NewClient(apiURL, serviceAuthToken string, timeout time.Duration) *Client {
	return &Client{
		apiURL:           apiURL,
		serviceAuthToken: serviceAuthToken,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetOnlineHearing looks up the online hearing associated with the given identifier
// (an email address, optionally suffixed with '+<caseId>').
// The backend status code is translated into the tagged outcome right here:
// 200 -> Found, 404 -> NotFound, 422 -> MultipleFound, 409 -> WrongAppealType,
// anything else (including transport failures) -> ServerError.
func (client *Client) GetOnlineHearing(ctx context.Context, identifier, accessToken string) Outcome {
	endpoint := client.apiURL + basePath + "?email=" + url.QueryEscape(identifier)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Outcome{Kind: OutcomeServerError, Cause: err}
	}
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return Outcome{Kind: OutcomeServerError, Cause: err}
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
		hearing := new(OnlineHearing)
		if err := json.NewDecoder(response.Body).Decode(hearing); err != nil {
			return Outcome{Kind: OutcomeServerError, Cause: err}
		}
		return Outcome{Kind: OutcomeFound, Hearing: hearing}
	case http.StatusNotFound:
		return Outcome{Kind: OutcomeNotFound}
	case http.StatusUnprocessableEntity:
		return Outcome{Kind: OutcomeMultipleFound}
	case http.StatusConflict:
		return Outcome{Kind: OutcomeWrongAppealType}
	default:
		return Outcome{Kind: OutcomeServerError, Cause: fmt.Errorf("hearing: unexpected status code %d", response.StatusCode)}
	}
}

// ExtendDeadline requests a 14 day extension of the current question round deadline
func (client *Client) ExtendDeadline(ctx context.Context, hearingID, accessToken string) (*OnlineHearing, error) {
	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID)
	request, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, nil)
	if err != nil {
		return nil, err
	}
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hearing: could not extend deadline: unexpected status code %d", response.StatusCode)
	}

	hearing := new(OnlineHearing)
	if err := json.NewDecoder(response.Body).Decode(hearing); err != nil {
		return nil, err
	}
	return hearing, nil
}

// AssignToCitizen associates the appeal identified by tya number and postcode with the given IDAM user
func (client *Client) AssignToCitizen(ctx context.Context, email, tya, postcode, accessToken string) (*OnlineHearing, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"postcode": postcode,
	})
	if err != nil {
		return nil, err
	}

	endpoint := client.apiURL + "/citizen/" + url.PathEscape(tya)
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hearing: could not assign case: unexpected status code %d", response.StatusCode)
	}

	hearing := new(OnlineHearing)
	if err := json.NewDecoder(response.Body).Decode(hearing); err != nil {
		return nil, err
	}
	return hearing, nil
}

func (client *Client) authorize(request *http.Request, accessToken string) {
	request.Header.Set("Authorization", "Bearer "+accessToken)
	if client.serviceAuthToken != "" {
		request.Header.Set("ServiceAuthorization", client.serviceAuthToken)
	}
}
