// Package rules evaluates the allow/disallow rule lists attached to
// libraries and V21 argument entries against the current platform and a
// set of feature flags.
package rules

import (
	"regexp"

	"github.com/quasar/mclauncher/internal/platform"
)

// Action is a rule's effect when it applies.
type Action string

const (
	Allow    Action = "allow"
	Disallow Action = "disallow"
)

// OSMatch constrains a rule to a platform name, version regex, and/or arch.
type OSMatch struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

// Rule is one entry in a library's or argument's `rules` array.
type Rule struct {
	Action   Action          `json:"action"`
	OS       *OSMatch        `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// Check evaluates rules against the given platform info and feature set.
// With no rules, it allows. Each applicable rule overwrites the running
// decision; the last applicable rule wins. The initial state is disallow.
func Check(ruleList []Rule, info platform.Info, features map[string]bool) (bool, error) {
	if len(ruleList) == 0 {
		return true, nil
	}

	decision := false
	for _, r := range ruleList {
		applies, err := applies(r, info, features)
		if err != nil {
			return false, err
		}
		if !applies {
			continue
		}
		decision = r.Action == Allow
	}
	return decision, nil
}

func applies(r Rule, info platform.Info, features map[string]bool) (bool, error) {
	if r.OS != nil {
		if r.OS.Name != "" {
			simple, err := info.SimpleName()
			if err != nil {
				return false, err
			}
			if simple != r.OS.Name {
				return false, nil
			}
		}
		if r.OS.Arch != "" && r.OS.Arch != info.Arch {
			return false, nil
		}
		if r.OS.Version != "" {
			matched, err := regexp.MatchString(r.OS.Version, info.Version)
			if err != nil {
				return false, err
			}
			if !matched {
				return false, nil
			}
		}
	}

	for key, expected := range r.Features {
		actual, ok := features[key]
		if !ok {
			actual = false
		}
		if actual != expected {
			return false, nil
		}
	}
	return true, nil
}
