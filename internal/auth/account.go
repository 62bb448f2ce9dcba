// Package auth implements every identity the launch pipeline consumes: the
// Microsoft device-code flow feeding the primary Minecraft account, an
// offline-name fallback, and the launcher's own OAuth2 authorization-code
// "premium" identity with a loopback redirect listener.
package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile is the Mojang-issued Minecraft profile: name and UUID.
type Profile struct {
	Name string
	UUID string
}

// MSATokens holds the four chained tokens a device-code login produces,
// each with its own expiry.
type MSATokens struct {
	MicrosoftToken        string    `json:"microsoftToken"`
	MicrosoftExpiresAt    time.Time `json:"microsoftExpiresAt"`
	XboxLiveToken         string    `json:"xboxLiveToken"`
	XboxLiveUHS           string    `json:"xboxLiveUHS"`
	XboxLiveExpiresAt     time.Time `json:"xboxLiveExpiresAt"`
	MinecraftToken        string    `json:"minecraftToken"`
	MinecraftExpiresAt    time.Time `json:"minecraftExpiresAt"`
	MicrosoftRefreshToken string    `json:"microsoftRefreshToken"`
}

// PremiumMSAAccount is the modern shape: every token tracked with its own
// expiry, refreshed independently.
type PremiumMSAAccount struct {
	Tokens  MSATokens `json:"tokens"`
	Profile Profile   `json:"profile"`
}

// IsExpired reports whether the Minecraft token needs a refresh.
func (a PremiumMSAAccount) IsExpired() bool {
	return time.Now().After(a.Tokens.MinecraftExpiresAt)
}

// LegacyMSAAccount is the flattened shape carried by older saved accounts:
// a single token plus the Microsoft refresh material needed to fully
// re-drive the chain.
type LegacyMSAAccount struct {
	Name           string `json:"name"`
	UUID           string `json:"uuid"`
	Token          string `json:"token"`
	MSExpiresIn    int    `json:"msExpiresIn"`
	MSAccessToken  string `json:"msAccessToken"`
	MSRefreshToken string `json:"msRefreshToken"`
}

// OfflineAccount has no token; its UUID is resolved once at creation via
// name lookup (or a random v4 UUID on lookup failure) and never expires.
type OfflineAccount struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// Kind discriminates the Account tagged variant.
type Kind int

const (
	KindOffline Kind = iota
	KindPremiumMSA
	KindLegacyMSA
)

// String returns the wire discriminator for k ("Offline"/"PremiumMSA"/
// "LegacyMSA"), matching spec.md §3's named Account variants.
func (k Kind) String() string {
	switch k {
	case KindOffline:
		return "Offline"
	case KindPremiumMSA:
		return "PremiumMSA"
	case KindLegacyMSA:
		return "LegacyMSA"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalJSON encodes k as its wire discriminator string, per spec.md §9's
// `type`-discriminator wire format for Account.
func (k Kind) MarshalJSON() ([]byte, error) {
	switch k {
	case KindOffline, KindPremiumMSA, KindLegacyMSA:
		return json.Marshal(k.String())
	default:
		return nil, fmt.Errorf("unknown account kind %d", int(k))
	}
}

// UnmarshalJSON decodes a Kind from its wire discriminator string.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "Offline":
		*k = KindOffline
	case "PremiumMSA":
		*k = KindPremiumMSA
	case "LegacyMSA":
		*k = KindLegacyMSA
	default:
		return fmt.Errorf("unknown account type %q", s)
	}
	return nil
}

// Account is the tagged-variant identity the launcher consumes: exactly
// one of Offline/Premium/Legacy is populated, selected by Kind.
type Account struct {
	Kind    Kind              `json:"type"`
	Offline OfflineAccount    `json:"offline,omitempty"`
	Premium PremiumMSAAccount `json:"premium,omitempty"`
	Legacy  LegacyMSAAccount  `json:"legacy,omitempty"`
}

// PlayerName returns the display name regardless of variant.
func (a Account) PlayerName() string {
	switch a.Kind {
	case KindPremiumMSA:
		return a.Premium.Profile.Name
	case KindLegacyMSA:
		return a.Legacy.Name
	default:
		return a.Offline.Name
	}
}

// PlayerUUID returns the account UUID regardless of variant.
func (a Account) PlayerUUID() string {
	switch a.Kind {
	case KindPremiumMSA:
		return a.Premium.Profile.UUID
	case KindLegacyMSA:
		return a.Legacy.UUID
	default:
		return a.Offline.UUID
	}
}

// AccessToken returns the bearer token to launch with, or "" for offline.
func (a Account) AccessToken() string {
	switch a.Kind {
	case KindPremiumMSA:
		return a.Premium.Tokens.MinecraftToken
	case KindLegacyMSA:
		return a.Legacy.Token
	default:
		return ""
	}
}
