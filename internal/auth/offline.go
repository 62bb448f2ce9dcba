package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var mojangProfileLookupURL = "https://api.mojang.com/users/profiles/minecraft/"

// OfflineClient resolves offline-account UUIDs: a lookup against Mojang's
// name-to-profile endpoint, falling back to a random v4 UUID when the name
// is unregistered or the lookup fails outright.
type OfflineClient struct {
	HTTP *http.Client
}

// Resolve builds an OfflineAccount for name, per spec scenario 1: try the
// Mojang lookup first, and never fail the caller even if it errors.
func (c *OfflineClient) Resolve(ctx context.Context, name string) (OfflineAccount, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return OfflineAccount{}, fmt.Errorf("%w: offline username must not be empty", ErrAuthFailed)
	}

	if id, ok := c.lookupUUID(ctx, name); ok {
		return OfflineAccount{Name: name, UUID: id}, nil
	}
	return OfflineAccount{Name: name, UUID: uuid.NewString()}, nil
}

func (c *OfflineClient) lookupUUID(ctx context.Context, name string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mojangProfileLookupURL+name, nil)
	if err != nil {
		return "", false
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil || parsed.ID == "" {
		return "", false
	}
	return formatUUID(parsed.ID), true
}

// formatUUID inserts dashes into Mojang's undashed 32-hex-char profile ID.
func formatUUID(raw string) string {
	if len(raw) != 32 {
		return raw
	}
	return strings.Join([]string{
		raw[0:8], raw[8:12], raw[12:16], raw[16:20], raw[20:32],
	}, "-")
}
