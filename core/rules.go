package core

import (
	"github.com/dlclark/regexp2"
)

// The two possible values of Rule.Action
const (
	ActionAllow = "allow"
	ActionDeny  = "deny"
)

// FeatureDemoUser is the feature flag for demo accounts. No demo mode is modelled: rules
// referencing it never match, and GetLaunchCommand rejects options enabling it.
const FeatureDemoUser = "is_demo_user"

// FeatureFlags holds the feature values that rule feature constraints are checked against
type FeatureFlags map[string]bool

// Rule is a single conditional entry in a library or argument rule list
type Rule struct {
	Action   string          `json:"action"`
	OS       *OSConstraint   `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OSConstraint restricts a rule to a platform. Version is a Java-style regular expression.
type OSConstraint struct {
	Name    string `json:"name,omitempty"`
	Arch    string `json:"arch,omitempty"`
	Version string `json:"version,omitempty"`
}

// RuleSet is an ordered list of rules, evaluated left to right
type RuleSet []Rule

// Allowed reports whether the item guarded by this rule list applies to the given platform and features.
// An empty list is unconditional. Otherwise the last matching rule decides, and nothing matching means denied.
func (rs RuleSet) Allowed(p Platform, features FeatureFlags) bool {
	if len(rs) == 0 {
		return true
	}
	allowed := false
	for _, rule := range rs {
		if rule.matches(p, features) {
			allowed = rule.Action == ActionAllow
		}
	}
	return allowed
}

func (r Rule) matches(p Platform, features FeatureFlags) bool {
	if r.OS != nil && !r.OS.matches(p) {
		return false
	}
	for name, want := range r.Features {
		if name == FeatureDemoUser {
			return false
		}
		if features[name] != want {
			return false
		}
	}
	return true
}

func (c OSConstraint) matches(p Platform) bool {
	if c.Name != "" {
		if p.Name == PlatformUnknown || c.Name != p.Name {
			return false
		}
	}
	if c.Arch != "" && c.Arch != p.Arch {
		return false
	}
	if c.Version != "" {
		if p.Version == "" {
			return false
		}
		// Descriptor version patterns are written for java.util.regex, which RE2 doesn't fully cover
		re, err := regexp2.Compile(c.Version, regexp2.None)
		if err != nil {
			return false
		}
		ok, err := re.MatchString(p.Version)
		if err != nil || !ok {
			return false
		}
	}
	return true
}
