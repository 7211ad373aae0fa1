package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client manages email notification subscriptions at the tribunals API
type Client struct {
	apiURL string
	http   *http.Client
}

// NewClient creates a new tribunals API subscription client
func NewClient(apiURL string, timeout time.Duration) *Client {
	return &Client{
		apiURL: apiURL,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChangeEmail points the given subscription at a new email address
func (client *Client) ChangeEmail(ctx context.Context, appealID, subscriptionID, email string) error {
	payload, err := json.Marshal(map[string]any{
		"subscription": map[string]string{"email": email},
	})
	if err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.subscriptionURL(appealID, subscriptionID), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("notify: could not change email address: unexpected status code %d", response.StatusCode)
	}
	return nil
}

// Unsubscribe stops all email notifications for the given subscription
func (client *Client) Unsubscribe(ctx context.Context, appealID, subscriptionID string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodDelete, client.subscriptionURL(appealID, subscriptionID), nil)
	if err != nil {
		return err
	}

	response, err := client.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode >= 300 {
		return fmt.Errorf("notify: could not unsubscribe: unexpected status code %d", response.StatusCode)
	}
	return nil
}

func (client *Client) subscriptionURL(appealID, subscriptionID string) string {
	return client.apiURL + "/appeals/" + url.PathEscape(appealID) + "/subscriptions/" + url.PathEscape(subscriptionID)
}
