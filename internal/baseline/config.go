package baseline

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed config_schema.json
var configSchema string

var (
	// ErrConfigNotFound is returned when the baseline config file does not exist.
	ErrConfigNotFound = errors.New("baseline config file not found")
	// ErrConfigInvalid is returned when the baseline config fails schema validation.
	ErrConfigInvalid = errors.New("baseline config is invalid")
)

// Config is the operator-supplied baseline configuration: the expected test
// case names (the evaluation allow-list) and the thresholds to apply. Both
// parts are optional; an empty config simply produces empty reports.
type Config struct {
	TestCases  []string   `yaml:"testcases" json:"testcases"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// LoadConfig reads and validates a baseline config YAML file.
func LoadConfig(log logrus.FieldLogger, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return nil, fmt.Errorf("reading baseline config %s: %w", path, err)
	}

	// Decode generically first so the document can be schema-checked before
	// it is bound to the typed config.
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing baseline config %s: %w", path, err)
	}

	if doc == nil {
		// Empty file: nothing expected, nothing enforced.
		return &Config{}, nil
	}

	if err := validateConfigDoc(doc); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing baseline config %s: %w", path, err)
	}

	cfg.TestCases = dedupeNames(cfg.TestCases)

	log.WithFields(logrus.Fields{
		"path":      path,
		"testcases": len(cfg.TestCases),
		"enabled":   cfg.Thresholds.Enabled(),
	}).Info("loaded baseline config")

	return cfg, nil
}

func validateConfigDoc(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(configSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating baseline config: %w", err)
	}

	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}

	return fmt.Errorf("%w: %s", ErrConfigInvalid, strings.Join(msgs, "; "))
}

func dedupeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(name))
	}

	return out
}
