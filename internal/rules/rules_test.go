package rules

import (
	"testing"

	"github.com/quasar/mclauncher/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestCheckEmptyRulesAllows(t *testing.T) {
	ok, err := Check(nil, platform.Info{Family: platform.Linux}, nil)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckSingleDisallowMatchingPlatform(t *testing.T) {
	rl := []Rule{{Action: Disallow, OS: &OSMatch{Name: "linux"}}}
	ok, err := Check(rl, platform.Info{Family: platform.Linux}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckLastApplicableRuleWins(t *testing.T) {
	rl := []Rule{
		{Action: Disallow},
		{Action: Allow, OS: &OSMatch{Name: "linux"}},
	}

	ok, err := Check(rl, platform.Info{Family: platform.Linux}, nil)
	assert.NoError(t, err)
	assert.True(t, ok, "linux should be allowed")

	ok, err = Check(rl, platform.Info{Family: platform.Windows}, nil)
	assert.NoError(t, err)
	assert.False(t, ok, "windows should fall back to the unconditional disallow")
}

func TestCheckFeatureMismatch(t *testing.T) {
	rl := []Rule{{Action: Allow, Features: map[string]bool{"is_demo_user": true}}}
	ok, err := Check(rl, platform.Info{Family: platform.Linux}, map[string]bool{"is_demo_user": false})
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = Check(rl, platform.Info{Family: platform.Linux}, map[string]bool{"is_demo_user": true})
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckOSVersionRegex(t *testing.T) {
	rl := []Rule{{Action: Allow, OS: &OSMatch{Version: `^10\.`}}}
	ok, err := Check(rl, platform.Info{Version: "10.15.7"}, nil)
	assert.NoError(t, err)
	assert.True(t, ok)

	ok, err = Check(rl, platform.Info{Version: "11.0.1"}, nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}
