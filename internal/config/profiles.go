package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Profile describes one LLM provider endpoint. The API key is never stored
// in the file; only the name of the environment variable that holds it.
type Profile struct {
	BaseURL   string `yaml:"base_url" validate:"required,url"`
	Model     string `yaml:"model" validate:"required"`
	APIKeyEnv string `yaml:"api_key_env" validate:"required"`
	// TimeoutSeconds overrides the per-request timeout. Zero means default.
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=0,lte=3600"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ResolveProfile looks up the named profile (or the config default when name
// is empty), validates it, and resolves the API key from the environment.
func (fc FileConfig) ResolveProfile(name string) (Profile, string, error) {
	if name == "" && fc.Profile != nil {
		name = *fc.Profile
	}
	if name == "" {
		name = "default"
	}
	p, ok := fc.Profiles[name]
	if !ok {
		return Profile{}, "", fmt.Errorf("profile %q not found in config", name)
	}
	if err := validate.Struct(p); err != nil {
		return Profile{}, "", fmt.Errorf("profile %q invalid: %w", name, err)
	}
	key := os.Getenv(p.APIKeyEnv)
	if key == "" {
		return Profile{}, "", fmt.Errorf("profile %q: environment variable %s is not set", name, p.APIKeyEnv)
	}
	return p, key, nil
}
