package feishu

import (
	"context"
	"fmt"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
)

const opToken = "auth/v3/tenant_access_token"

// TenantAccessToken exchanges the app credentials for a tenant access token.
func (c *Client) TenantAccessToken(ctx context.Context) (string, error) {
	c.logger.DebugContext(ctx, "Requesting tenant access token", "app_id", c.appID)

	resp, err := c.sdk.GetTenantAccessTokenBySelfBuiltApp(ctx, &larkcore.SelfBuiltTenantAccessTokenReq{
		AppID:     c.appID,
		AppSecret: c.appSecret,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", opToken, err)
	}
	if resp.Code != 0 {
		return "", &APIError{Op: opToken, Code: resp.Code, Msg: resp.Msg}
	}
	if resp.TenantAccessToken == "" {
		return "", unexpected(opToken, "tenant_access_token")
	}

	c.logger.DebugContext(ctx, "Got tenant access token", "expire", resp.Expire)
	return resp.TenantAccessToken, nil
}
