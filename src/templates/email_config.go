package templates

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EmailConfig holds branding and subject lines for outbound email
type EmailConfig struct {
	Branding struct {
		Name    string `yaml:"name"`
		Website string `yaml:"website"`
	} `yaml:"branding"`
	Subjects struct {
		Notification string `yaml:"notification"`
		Reply        string `yaml:"reply"`
	} `yaml:"subjects"`
}

// DefaultEmailConfig returns the built-in fallback configuration
func DefaultEmailConfig() *EmailConfig {
	cfg := &EmailConfig{}
	cfg.Branding.Name = "Contact Backend"
	cfg.Branding.Website = "http://localhost:8080"
	cfg.Subjects.Notification = "New contact form submission"
	cfg.Subjects.Reply = "Re: your inquiry"
	return cfg
}

// LoadEmailConfig reads email_config.yaml from the templates directory
func LoadEmailConfig() (*EmailConfig, error) {
	paths := []string{
		"src/templates/email_config.yaml",
		filepath.Join(".", "src", "templates", "email_config.yaml"),
	}

	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read email_config.yaml: %w", err)
	}

	cfg := DefaultEmailConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse email_config.yaml: %w", err)
	}
	return cfg, nil
}
