package config

import (
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/dotinstall/pkg/errors"
)

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to marshal configuration")
	}
	return data, nil
}

// GenerateConfigContent renders cfg as a config file with every value
// commented out, ready to be saved as .dotinstall.toml and edited.
func GenerateConfigContent(cfg *Config) (string, error) {
	data, err := cfg.Marshal()
	if err != nil {
		return "", err
	}
	header := "# dotinstall configuration. Uncomment a value to override it.\n\n"
	return header + commentOutConfigValues(string(data)), nil
}

// commentOutConfigValues comments out every assignment, keeping blank
// lines, comments and section headers as they are.
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
