package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RolesConfig maps OIDC claim values to application roles, so coordinator
// access can be driven by the identity provider's group assignments instead
// of manual role updates.
type RolesConfig struct {
	// Claim is the OIDC claim inspected for role mapping, e.g. "groups".
	Claim string `yaml:"claim"`
	// Mappings maps a claim value to an application role
	// (parent, coordinator, admin).
	Mappings map[string]string `yaml:"mappings"`
}

// LoadRolesConfig reads the role mapping file. A missing path returns an
// empty config: every new user defaults to the parent role.
func LoadRolesConfig(path string) (*RolesConfig, error) {
	if path == "" {
		return &RolesConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roles config: %w", err)
	}

	var rc RolesConfig
	if err := yaml.Unmarshal(data, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse roles config: %w", err)
	}

	return &rc, nil
}

// RoleFor resolves the application role for a set of claim values. The
// highest-privilege mapping wins; no match defaults to parent.
func (rc *RolesConfig) RoleFor(claimValues []string) string {
	role := "parent"
	for _, v := range claimValues {
		mapped, ok := rc.Mappings[v]
		if !ok {
			continue
		}
		if mapped == "admin" {
			return "admin"
		}
		if mapped == "coordinator" {
			role = "coordinator"
		}
	}
	return role
}
