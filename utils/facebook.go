package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/princinho/eventbackend/dto"
)

var ErrTokenIntrospection = errors.New("token introspection failed")

// TokenData is the introspection result returned by the Graph API debug_token
// endpoint. ExpiresAt is in epoch seconds.
type TokenData struct {
	AppID     string   `json:"app_id"`
	UserID    string   `json:"user_id"`
	ExpiresAt int64    `json:"expires_at"`
	IsValid   bool     `json:"is_valid"`
	Scopes    []string `json:"scopes"`
}

// OAuthVerifier checks third-party access tokens.
type OAuthVerifier interface {
	// LoadData queries the provider about login's token.
	LoadData(ctx context.Context, login dto.FacebookLoginDTO) (*TokenData, error)
	// ValidateData is a pure policy check on loaded data.
	ValidateData(login dto.FacebookLoginDTO, requiredPermissions []string, data *TokenData) bool
}

type FacebookVerifier struct {
	appID      string
	appSecret  string
	graphURL   string
	clock      Clock
	httpClient *http.Client
}

func NewFacebookVerifier(appID, appSecret, graphURL string, clock Clock) *FacebookVerifier {
	return &FacebookVerifier{
		appID:     appID,
		appSecret: appSecret,
		graphURL:  strings.TrimRight(graphURL, "/"),
		clock:     clock,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type debugTokenResponse struct {
	Data struct {
		TokenData
		Error *graphError `json:"error"`
	} `json:"data"`
	Error *graphError `json:"error"`
}

type graphError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (f *FacebookVerifier) LoadData(ctx context.Context, login dto.FacebookLoginDTO) (*TokenData, error) {
	query := url.Values{}
	query.Set("input_token", login.Token)
	query.Set("access_token", f.appID+"|"+f.appSecret)
	endpoint := f.graphURL + "/debug_token?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build debug_token request: %w", err)
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenIntrospection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTokenIntrospection, err)
	}

	var parsed debugTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", ErrTokenIntrospection, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenIntrospection, parsed.Error.Message)
	}
	if parsed.Data.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrTokenIntrospection, parsed.Data.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTokenIntrospection, resp.StatusCode)
	}

	data := parsed.Data.TokenData
	return &data, nil
}

func (f *FacebookVerifier) ValidateData(login dto.FacebookLoginDTO, requiredPermissions []string, data *TokenData) bool {
	if data == nil {
		return false
	}
	matchesApp := data.AppID == f.appID
	matchesUser := data.UserID == login.ExternalUserID
	expired := data.ExpiresAt*1000 < Millis(f.clock.Now())

	return matchesApp && matchesUser && !expired && data.IsValid && grantedAll(requiredPermissions, data.Scopes)
}

func grantedAll(required, granted []string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, scope := range granted {
		set[scope] = struct{}{}
	}
	for _, scope := range required {
		if _, ok := set[scope]; !ok {
			return false
		}
	}
	return true
}
