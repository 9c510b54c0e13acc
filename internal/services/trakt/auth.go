package trakt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoToken is returned by token stores that hold no token yet
var ErrNoToken = errors.New("no Trakt token stored")

// TokenStore defines the interface for storing and retrieving tokens
type TokenStore interface {
	GetToken() (*Token, error)
	SaveToken(token *Token) error
}

// Token represents a Trakt authentication token
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// FileTokenStore implements TokenStore using a JSON file
type FileTokenStore struct {
	filepath string
}

// NewFileTokenStore creates a new file-based token store
func NewFileTokenStore(filepath string) (*FileTokenStore, error) {
	if filepath == "" {
		return nil, fmt.Errorf("token file path is empty")
	}
	return &FileTokenStore{filepath: filepath}, nil
}

// GetToken retrieves the token from the file
func (s *FileTokenStore) GetToken() (*Token, error) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoToken
		}
		return nil, err
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}

	return &token, nil
}

// SaveToken saves the token to the file
func (s *FileTokenStore) SaveToken(token *Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filepath, data, 0600)
}

// DeviceCodeResponse represents the response from device code request
type DeviceCodeResponse struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURL string `json:"verification_url"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
}

// TokenResponse represents the response from token request
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

func (r TokenResponse) token() *Token {
	return &Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    time.Now().Add(time.Duration(r.ExpiresIn) * time.Second),
	}
}

// HasToken reports whether a token is stored
func (c *Client) HasToken() bool {
	token, err := c.tokenStore.GetToken()
	return err == nil && token != nil
}

// Authenticate performs the device authentication flow. prompt is called once
// with the URL to visit and the code to enter.
func (c *Client) Authenticate(ctx context.Context, prompt func(verificationURL, userCode string)) error {
	deviceCodeReq := map[string]string{
		"client_id": c.clientID,
	}

	var deviceResp DeviceCodeResponse
	if err := c.send(ctx, "POST", "/oauth/device/code", deviceCodeReq, &deviceResp); err != nil {
		return fmt.Errorf("failed to get device code: %w", err)
	}

	c.logger.WithField("verification_url", deviceResp.VerificationURL).Info("Waiting for Trakt device authorization")
	if prompt != nil {
		prompt(deviceResp.VerificationURL, deviceResp.UserCode)
	}

	interval := time.Duration(deviceResp.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(deviceResp.ExpiresIn) * time.Second)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if time.Now().After(deadline) {
				return fmt.Errorf("authentication timeout")
			}

			tokenReq := map[string]string{
				"code":          deviceResp.DeviceCode,
				"client_id":     c.clientID,
				"client_secret": c.clientSecret,
			}

			var tokenResp TokenResponse
			if err := c.send(ctx, "POST", "/oauth/device/token", tokenReq, &tokenResp); err != nil {
				var apiErr *APIError
				// 400 means the user has not entered the code yet, 429 asks us to slow down
				if errors.As(err, &apiErr) && (apiErr.StatusCode == 400 || apiErr.StatusCode == 429) {
					c.logger.Debug("Waiting for user authorization...")
					continue
				}
				return fmt.Errorf("failed to poll device token: %w", err)
			}

			if err := c.tokenStore.SaveToken(tokenResp.token()); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			c.logger.Info("Authentication successful!")
			return nil
		}
	}
}

// RefreshToken refreshes the access token using the refresh token
func (c *Client) RefreshToken(ctx context.Context) error {
	token, err := c.tokenStore.GetToken()
	if err != nil {
		return fmt.Errorf("no token to refresh: %w", err)
	}

	refreshReq := map[string]string{
		"refresh_token": token.RefreshToken,
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"redirect_uri":  "urn:ietf:wg:oauth:2.0:oob",
		"grant_type":    "refresh_token",
	}

	var tokenResp TokenResponse
	if err := c.send(ctx, "POST", "/oauth/token", refreshReq, &tokenResp); err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	if err := c.tokenStore.SaveToken(tokenResp.token()); err != nil {
		return fmt.Errorf("failed to save refreshed token: %w", err)
	}

	c.logger.Info("Token refreshed successfully")
	return nil
}
