package auth

import "context"

// Refresh dispatches to the refresh strategy matching acc.Kind: premium MSA
// is returned unchanged while its Minecraft token is valid and otherwise
// refreshes the Microsoft token only if it has expired before re-driving
// the rest of the chain, legacy MSA always fully re-drives it, and offline
// is a no-op.
func (c *MSAClient) Refresh(ctx context.Context, acc Account) (Account, error) {
	switch acc.Kind {
	case KindPremiumMSA:
		refreshed, err := c.RefreshPremium(ctx, acc.Premium)
		if err != nil {
			return Account{}, err
		}
		return Account{Kind: KindPremiumMSA, Premium: refreshed}, nil
	case KindLegacyMSA:
		refreshed, err := c.RefreshLegacy(ctx, acc.Legacy)
		if err != nil {
			return Account{}, err
		}
		return Account{Kind: KindLegacyMSA, Legacy: refreshed}, nil
	default:
		return acc, nil
	}
}
