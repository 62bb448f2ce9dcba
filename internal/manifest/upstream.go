package manifest

import "encoding/json"

// UpstreamVersionEntry is one entry in Mojang's top-level version manifest.
type UpstreamVersionEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// UpstreamManifest is the root of Mojang's `version_manifest_v2.json`: a
// flat list of every known version id with the URL to its version.json.
type UpstreamManifest struct {
	Versions []UpstreamVersionEntry `json:"versions"`
}

// DecodeUpstreamManifest parses the upstream manifest payload.
func DecodeUpstreamManifest(data []byte) (*UpstreamManifest, error) {
	var m UpstreamManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// URLFor looks up the version.json URL for a given version id.
func (m *UpstreamManifest) URLFor(id string) (string, bool) {
	for _, v := range m.Versions {
		if v.ID == id {
			return v.URL, true
		}
	}
	return "", false
}
