package Gateway

import (
	"context"
	"fmt"
	"net/http"

	"MagicPlanner/Models"

	log "github.com/sirupsen/logrus"
)

// FetchDeviceTokens lists every push token row of an account.
func (c *Client) FetchDeviceTokens(ctx context.Context, accountID int64) ([]Models.DeviceToken, error) {
	var tokens []Models.DeviceToken
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/token/%d", accountID), nil, &tokens); err != nil {
		logFailure("fetch_tokens", err, log.Fields{"account_id": accountID})
		return nil, err
	}
	return tokens, nil
}

// FetchDeviceToken returns the token row of this device model, or nil when
// the account has none for it.
func (c *Client) FetchDeviceToken(ctx context.Context, accountID int64, modelID string) (*Models.DeviceToken, error) {
	tokens, err := c.FetchDeviceTokens(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for _, t := range tokens {
		if t.ModelID == modelID {
			found := t
			return &found, nil
		}
	}
	return nil, nil
}

type tokenRequest struct {
	AccountID int64  `json:"accountId,omitempty"`
	ModelID   string `json:"modelId,omitempty"`
	Token     string `json:"token"`
}

// RegisterDeviceToken creates the token row of a device.
func (c *Client) RegisterDeviceToken(ctx context.Context, accountID int64, modelID, token string) (*Models.DeviceToken, error) {
	body := tokenRequest{AccountID: accountID, ModelID: modelID, Token: token}
	created := Models.DeviceToken{AccountID: accountID, ModelID: modelID, Token: token}
	if err := c.do(ctx, http.MethodPost, "/api/v1/token/create", body, &created); err != nil {
		logFailure("create_token", err, log.Fields{"account_id": accountID, "model_id": modelID})
		return nil, err
	}
	return &created, nil
}

// UpdateDeviceToken replaces the token value of the account's device row.
func (c *Client) UpdateDeviceToken(ctx context.Context, accountID int64, modelID, token string) error {
	body := tokenRequest{ModelID: modelID, Token: token}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/token/update/%d", accountID), body, nil); err != nil {
		logFailure("update_token", err, log.Fields{"account_id": accountID, "model_id": modelID})
		return err
	}
	return nil
}

// DeleteDeviceToken removes the row holding the given token.
func (c *Client) DeleteDeviceToken(ctx context.Context, token string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/token", tokenRequest{Token: token}, nil); err != nil {
		logFailure("delete_token", err, nil)
		return err
	}
	return nil
}
