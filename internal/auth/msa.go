package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	msaDeviceCodeURL = "https://login.microsoftonline.com/consumers/oauth2/v2.0/devicecode"
	msaTokenURL      = "https://login.microsoftonline.com/consumers/oauth2/v2.0/token"
	xboxUserAuthURL  = "https://user.auth.xboxlive.com/user/authenticate"
	xstsAuthURL      = "https://xsts.auth.xboxlive.com/xsts/authorize"
	mcAuthURL        = "https://api.minecraftservices.com/authentication/login_with_xbox"
	mcProfileURL     = "https://api.minecraftservices.com/minecraft/profile"
	mcEntitlementURL = "https://api.minecraftservices.com/entitlements/mcstore"
)

// MSAClient drives the Microsoft device-code flow and the Xbox Live →
// Minecraft token chain that follows it.
type MSAClient struct {
	HTTP     *http.Client
	ClientID string
}

// DeviceCode is the response to a device-code request: verification_uri and
// user_code are surfaced to the UI for the user to complete login.
type DeviceCode struct {
	DeviceCode      string `json:"device_code"`
	UserCode        string `json:"user_code"`
	VerificationURI string `json:"verification_uri"`
	ExpiresIn       int    `json:"expires_in"`
	Interval        int    `json:"interval"`
	Message         string `json:"message"`
}

// RequestDeviceCode starts the flow.
func (c *MSAClient) RequestDeviceCode(ctx context.Context) (*DeviceCode, error) {
	form := url.Values{
		"client_id": {c.ClientID},
		"scope":     {"XboxLive.signin offline_access"},
	}
	var dc DeviceCode
	if err := c.postForm(ctx, msaDeviceCodeURL, form, &dc); err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}
	return &dc, nil
}

type msaTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// PollForToken polls the token endpoint until the user completes login (or
// the context is canceled), honoring authorization_pending/slow_down.
func (c *MSAClient) PollForToken(ctx context.Context, dc *DeviceCode) (accessToken, refreshToken string, expiresAt time.Time, err error) {
	form := url.Values{
		"client_id":   {c.ClientID},
		"grant_type":  {"urn:ietf:params:oauth:grant-type:device_code"},
		"device_code": {dc.DeviceCode},
	}
	interval := time.Duration(dc.Interval) * time.Second
	if interval <= 0 {
		interval = 5 * time.Second
	}
	deadline := time.Now().Add(time.Duration(dc.ExpiresIn) * time.Second)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return "", "", time.Time{}, ctx.Err()
		case <-time.After(interval):
		}

		var resp msaTokenResponse
		if perr := c.postForm(ctx, msaTokenURL, form, &resp); perr != nil {
			continue
		}
		switch resp.Error {
		case "":
			return resp.AccessToken, resp.RefreshToken, time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second), nil
		case "authorization_pending":
			continue
		case "slow_down":
			interval += 5 * time.Second
		default:
			return "", "", time.Time{}, fmt.Errorf("%w: %s", ErrAuthFailed, resp.Error)
		}
	}
	return "", "", time.Time{}, fmt.Errorf("%w: timed out waiting for user authorization", ErrAuthFailed)
}

// RefreshMSToken exchanges a stored Microsoft refresh token for a new
// access token, used by both account-refresh paths.
func (c *MSAClient) RefreshMSToken(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, expiresAt time.Time, err error) {
	form := url.Values{
		"client_id":     {c.ClientID},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	var resp msaTokenResponse
	if err := c.postForm(ctx, msaTokenURL, form, &resp); err != nil {
		return "", "", time.Time{}, fmt.Errorf("refresh microsoft token: %w", err)
	}
	if resp.Error != "" {
		return "", "", time.Time{}, fmt.Errorf("%w: %s", ErrAuthFailed, resp.Error)
	}
	return resp.AccessToken, resp.RefreshToken, time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second), nil
}

type xboxAuthRequest struct {
	Properties   xboxAuthProperties `json:"Properties"`
	RelyingParty string             `json:"RelyingParty"`
	TokenType    string             `json:"TokenType"`
}

type xboxAuthProperties struct {
	AuthMethod string   `json:"AuthMethod,omitempty"`
	SiteName   string   `json:"SiteName,omitempty"`
	RpsTicket  string   `json:"RpsTicket,omitempty"`
	SandboxID  string   `json:"SandboxId,omitempty"`
	UserTokens []string `json:"UserTokens,omitempty"`
}

type xboxAuthResponse struct {
	Token         string `json:"Token"`
	DisplayClaims struct {
		XUI []struct {
			UHS string `json:"uhs"`
			XID string `json:"xid"`
		} `json:"xui"`
	} `json:"DisplayClaims"`
}

// AuthenticateXbox exchanges a Microsoft access token for an Xbox Live token.
func (c *MSAClient) AuthenticateXbox(ctx context.Context, msaAccessToken string) (token, uhs string, err error) {
	body := xboxAuthRequest{
		Properties: xboxAuthProperties{
			AuthMethod: "RPS",
			SiteName:   "user.auth.xboxlive.com",
			RpsTicket:  "d=" + msaAccessToken,
		},
		RelyingParty: "http://auth.xboxlive.com",
		TokenType:    "JWT",
	}
	resp, err := c.doXboxRequest(ctx, xboxUserAuthURL, body)
	if err != nil {
		return "", "", err
	}
	return resp.Token, firstUHS(resp), nil
}

// AuthenticateXSTS exchanges an Xbox Live token for an XSTS token, also
// yielding the xuid used by some game argument templates.
func (c *MSAClient) AuthenticateXSTS(ctx context.Context, xboxToken string) (token, uhs, xuid string, err error) {
	body := xboxAuthRequest{
		Properties: xboxAuthProperties{
			SandboxID:  "RETAIL",
			UserTokens: []string{xboxToken},
		},
		RelyingParty: "rp://api.minecraftservices.com/",
		TokenType:    "JWT",
	}
	resp, err := c.doXboxRequest(ctx, xstsAuthURL, body)
	if err != nil {
		return "", "", "", err
	}
	xid := ""
	if len(resp.DisplayClaims.XUI) > 0 {
		xid = resp.DisplayClaims.XUI[0].XID
	}
	return resp.Token, firstUHS(resp), xid, nil
}

func firstUHS(resp xboxAuthResponse) string {
	if len(resp.DisplayClaims.XUI) > 0 {
		return resp.DisplayClaims.XUI[0].UHS
	}
	return ""
}

func (c *MSAClient) doXboxRequest(ctx context.Context, endpoint string, body xboxAuthRequest) (xboxAuthResponse, error) {
	var resp xboxAuthResponse
	if err := c.postJSON(ctx, endpoint, body, &resp, map[string]string{
		"x-xbl-contract-version": "1",
	}); err != nil {
		return xboxAuthResponse{}, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	return resp, nil
}

type minecraftLoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// LoginWithXbox exchanges the XSTS token and user hash for a Minecraft
// access token.
func (c *MSAClient) LoginWithXbox(ctx context.Context, uhs, xstsToken string) (token string, expiresAt time.Time, err error) {
	body := struct {
		IdentityToken string `json:"identityToken"`
	}{IdentityToken: fmt.Sprintf("XBL3.0 x=%s;%s", uhs, xstsToken)}

	var resp minecraftLoginResponse
	if err := c.postJSON(ctx, mcAuthURL, body, &resp, nil); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: minecraft login: %v", ErrAuthFailed, err)
	}
	return resp.AccessToken, time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second), nil
}

type entitlementsResponse struct {
	Items []struct {
		Name string `json:"name"`
	} `json:"items"`
}

// CheckOwnership fails with ErrAuthFailed if the account does not own
// Minecraft.
func (c *MSAClient) CheckOwnership(ctx context.Context, mcAccessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mcEntitlementURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+mcAccessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: entitlement check: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: entitlement check returned %s", ErrAuthFailed, resp.Status)
	}
	var parsed entitlementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("%w: decode entitlements: %v", ErrAuthFailed, err)
	}
	if len(parsed.Items) == 0 {
		return fmt.Errorf("%w: account does not own minecraft", ErrAuthFailed)
	}
	return nil
}

// FetchProfile retrieves the Minecraft profile for a Minecraft access
// token.
func (c *MSAClient) FetchProfile(ctx context.Context, mcAccessToken string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mcProfileURL, nil)
	if err != nil {
		return Profile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+mcAccessToken)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("%w: fetch profile: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Profile{}, fmt.Errorf("%w: fetch profile returned %s", ErrAuthFailed, resp.Status)
	}

	var parsed struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Profile{}, fmt.Errorf("%w: decode profile: %v", ErrAuthFailed, err)
	}
	return Profile{Name: parsed.Name, UUID: parsed.ID}, nil
}

// LoginDeviceCode drives the full chain from a completed device-code poll
// through to a stored PremiumMSAAccount: MS token → XBL → XSTS → MCA →
// ownership check → profile fetch.
func (c *MSAClient) LoginDeviceCode(ctx context.Context, msAccessToken, msRefreshToken string, msExpiresAt time.Time) (PremiumMSAAccount, error) {
	xblToken, uhs, err := c.AuthenticateXbox(ctx, msAccessToken)
	if err != nil {
		return PremiumMSAAccount{}, err
	}
	xstsToken, uhs2, _, err := c.AuthenticateXSTS(ctx, xblToken)
	if err != nil {
		return PremiumMSAAccount{}, err
	}
	if uhs2 != "" {
		uhs = uhs2
	}
	mcToken, mcExpiresAt, err := c.LoginWithXbox(ctx, uhs, xstsToken)
	if err != nil {
		return PremiumMSAAccount{}, err
	}
	if err := c.CheckOwnership(ctx, mcToken); err != nil {
		return PremiumMSAAccount{}, err
	}
	profile, err := c.FetchProfile(ctx, mcToken)
	if err != nil {
		return PremiumMSAAccount{}, err
	}

	return PremiumMSAAccount{
		Tokens: MSATokens{
			MicrosoftToken:        msAccessToken,
			MicrosoftExpiresAt:    msExpiresAt,
			MicrosoftRefreshToken: msRefreshToken,
			XboxLiveToken:         xblToken,
			XboxLiveUHS:           uhs,
			MinecraftToken:        mcToken,
			MinecraftExpiresAt:    mcExpiresAt,
		},
		Profile: profile,
	}, nil
}

// RefreshPremium implements §4.8's premium-account refresh: if the
// Minecraft token is not expired, return as-is; else refresh the Microsoft
// token if needed and re-drive XBL→MCA→ownership→profile.
func (c *MSAClient) RefreshPremium(ctx context.Context, acc PremiumMSAAccount) (PremiumMSAAccount, error) {
	if !acc.IsExpired() {
		return acc, nil
	}

	msAccess, msRefresh, msExpiresAt := acc.Tokens.MicrosoftToken, acc.Tokens.MicrosoftRefreshToken, acc.Tokens.MicrosoftExpiresAt
	if time.Now().After(msExpiresAt) {
		if msRefresh == "" {
			return PremiumMSAAccount{}, fmt.Errorf("%w: no refresh token stored", ErrAuthFailed)
		}
		var err error
		msAccess, msRefresh, msExpiresAt, err = c.RefreshMSToken(ctx, msRefresh)
		if err != nil {
			return PremiumMSAAccount{}, err
		}
	}
	return c.LoginDeviceCode(ctx, msAccess, msRefresh, msExpiresAt)
}

// RefreshLegacy always fully re-drives the XBL→MCA→ownership→profile chain
// from the stored Microsoft refresh token — legacy accounts never
// partially refresh, matching the original launcher's refresh_legacy.
func (c *MSAClient) RefreshLegacy(ctx context.Context, acc LegacyMSAAccount) (LegacyMSAAccount, error) {
	if acc.MSRefreshToken == "" {
		return LegacyMSAAccount{}, fmt.Errorf("%w: no refresh token stored for legacy account", ErrAuthFailed)
	}
	msAccess, msRefresh, msExpiresAt, err := c.RefreshMSToken(ctx, acc.MSRefreshToken)
	if err != nil {
		return LegacyMSAAccount{}, err
	}
	premium, err := c.LoginDeviceCode(ctx, msAccess, msRefresh, msExpiresAt)
	if err != nil {
		return LegacyMSAAccount{}, err
	}
	return LegacyMSAAccount{
		Name:           premium.Profile.Name,
		UUID:           premium.Profile.UUID,
		Token:          premium.Tokens.MinecraftToken,
		MSExpiresIn:    int(time.Until(premium.Tokens.MicrosoftExpiresAt).Seconds()),
		MSAccessToken:  premium.Tokens.MicrosoftToken,
		MSRefreshToken: premium.Tokens.MicrosoftRefreshToken,
	}, nil
}

func (c *MSAClient) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *MSAClient) postJSON(ctx context.Context, endpoint string, body, out any, headers map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(data)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
