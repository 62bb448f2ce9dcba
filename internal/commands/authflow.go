package commands

import (
	"context"
	"fmt"

	"github.com/quasar/mclauncher/internal/auth"
)

// DeviceCodeCallback is invoked once the Microsoft device code is issued,
// backing the `microsoft_code` event to the GUI shell.
type DeviceCodeCallback func(dc *auth.DeviceCode)

// LoginMicrosoft drives the full device-code flow: request a code (firing
// onCode so the shell can display it), poll until the user authorizes it,
// then chain through Xbox Live/XSTS/Minecraft Services and the ownership
// check.
func (s *Service) LoginMicrosoft(ctx context.Context, onCode DeviceCodeCallback) (auth.Account, error) {
	dc, err := s.MSA.RequestDeviceCode(ctx)
	if err != nil {
		return auth.Account{}, fmt.Errorf("request device code: %w", err)
	}
	if onCode != nil {
		onCode(dc)
	}

	msAccess, msRefresh, msExpiresAt, err := s.MSA.PollForToken(ctx, dc)
	if err != nil {
		return auth.Account{}, fmt.Errorf("poll for token: %w", err)
	}

	premium, err := s.MSA.LoginDeviceCode(ctx, msAccess, msRefresh, msExpiresAt)
	if err != nil {
		return auth.Account{}, fmt.Errorf("login device code: %w", err)
	}

	return auth.Account{Kind: auth.KindPremiumMSA, Premium: premium}, nil
}

// LoginOffline resolves an offline account by player name.
func (s *Service) LoginOffline(ctx context.Context, name string) (auth.Account, error) {
	offline, err := s.Offline.Resolve(ctx, name)
	if err != nil {
		return auth.Account{}, fmt.Errorf("resolve offline account: %w", err)
	}
	return auth.Account{Kind: auth.KindOffline, Offline: offline}, nil
}

// RefreshAccount re-drives whichever token refresh the account's Kind
// requires (§4.8); a no-op for offline accounts.
func (s *Service) RefreshAccount(ctx context.Context, acc auth.Account) (auth.Account, error) {
	return s.MSA.Refresh(ctx, acc)
}

// AuthURLCallback is invoked once the premium OAuth2 authorization URL is
// ready, backing the `auth_url` event to the GUI shell.
type AuthURLCallback func(url string)

// LoginPremium drives the launcher's own OAuth2 authorization-code flow
// for the "premium" identity used to skip mod-download advertisements.
func (s *Service) LoginPremium(ctx context.Context, onURLReady AuthURLCallback) (auth.ClientAccount, error) {
	return s.Client.Login(ctx, auth.ClientLoginCallback(onURLReady))
}

// RenewPremium refreshes a premium ClientAccount's access token.
func (s *Service) RenewPremium(ctx context.Context, acc auth.ClientAccount) (auth.ClientAccount, error) {
	return s.Client.Renew(ctx, acc)
}
