package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// tokenEndpoint issues application-only OAuth tokens.
const tokenEndpoint = "https://www.reddit.com/api/v1/access_token"

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// RequestAccessToken performs a client-credentials grant and returns the
// bearer token. Callers treat failure as non-fatal and continue anonymously.
func RequestAccessToken(ctx context.Context, clientID, clientSecret string) (string, error) {
	return requestAccessToken(ctx, tokenEndpoint, clientID, clientSecret)
}

func requestAccessToken(ctx context.Context, endpoint, clientID, clientSecret string) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", defaultUserAgent)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("authentication failed with status %s", resp.Status)
	}

	var tr accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("empty access token received")
	}

	log.Info().Msg("Authenticated with Reddit")
	return tr.AccessToken, nil
}
