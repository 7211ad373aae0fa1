package evidence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"
)

var basePath = "/continuous-online-hearings"

// Descriptor represents a single piece of evidence held against an online hearing
type Descriptor struct {
	ID          string `json:"id"`
	FileName    string `json:"file_name"`
	CreatedDate string `json:"created_date"`
}

// Client uploads and manages additional evidence at the case API
type Client struct {
	apiURL           string
	serviceAuthToken string
	http             *http.Client
}

// NewClient creates a new additional evidence client
func NewClient(apiURL, serviceAuthToken string, timeout time.Duration) *Client {
	return &Client{
		apiURL:           apiURL,
		serviceAuthToken: serviceAuthToken,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// SaveStatement submits a personal statement against the given online hearing
func (client *Client) SaveStatement(ctx context.Context, hearingID, statement, accessToken string) error {
	payload, err := json.Marshal(map[string]string{"body": statement})
	if err != nil {
		return err
	}

	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID) + "/statement"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("evidence: could not save statement: unexpected status code %d", response.StatusCode)
	}
	return nil
}

// Upload uploads a single file as draft evidence and returns its descriptor
func (client *Client) Upload(ctx context.Context, hearingID, fileName string, file io.Reader, accessToken string) (*Descriptor, error) {
	body := new(bytes.Buffer)
	form := multipart.NewWriter(body)
	part, err := form.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID) + "/evidence"
	request, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", form.FormDataContentType())
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return nil, fmt.Errorf("evidence: could not upload file: unexpected status code %d", response.StatusCode)
	}

	descriptor := new(Descriptor)
	if err := json.NewDecoder(response.Body).Decode(descriptor); err != nil {
		return nil, err
	}
	return descriptor, nil
}

// List returns the draft evidence uploaded against the given online hearing
func (client *Client) List(ctx context.Context, hearingID, accessToken string) ([]*Descriptor, error) {
	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID) + "/evidence"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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
		return nil, fmt.Errorf("evidence: could not list files: unexpected status code %d", response.StatusCode)
	}

	descriptors := []*Descriptor{}
	if err := json.NewDecoder(response.Body).Decode(&descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

// Remove deletes a single piece of draft evidence
func (client *Client) Remove(ctx context.Context, hearingID, evidenceID, accessToken string) error {
	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID) + "/evidence/" + url.PathEscape(evidenceID)
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("evidence: could not remove file: unexpected status code %d", response.StatusCode)
	}
	return nil
}

// Submit submits all draft evidence together with a description
func (client *Client) Submit(ctx context.Context, hearingID, description, accessToken string) error {
	payload, err := json.Marshal(map[string]string{"body": description})
	if err != nil {
		return err
	}

	endpoint := client.apiURL + basePath + "/" + url.PathEscape(hearingID) + "/evidence"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	client.authorize(request, accessToken)

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("evidence: could not submit evidence: unexpected status code %d", response.StatusCode)
	}
	return nil
}

// Coversheet downloads the PDF coversheet for posting physical evidence
func (client *Client) Coversheet(ctx context.Context, caseID, accessToken string) ([]byte, error) {
	endpoint := client.apiURL + basePath + "/" + url.PathEscape(caseID) + "/evidence/coversheet"
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
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
		return nil, fmt.Errorf("evidence: could not fetch coversheet: unexpected status code %d", response.StatusCode)
	}
	return io.ReadAll(response.Body)
}

func (client *Client) authorize(request *http.Request, accessToken string) {
	request.Header.Set("Authorization", "Bearer "+accessToken)
	if client.serviceAuthToken != "" {
		request.Header.Set("ServiceAuthorization", client.serviceAuthToken)
	}
}
