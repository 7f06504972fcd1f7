package symptoms

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

//go:embed pool.yaml
var defaultPoolYAML []byte

type poolEntry struct {
	PossibleConditions []string `yaml:"possibleConditions"`
}

// DefaultPool returns the built-in canned results.
func DefaultPool() []models.AnalysisResult {
	pool, err := ParsePool(defaultPoolYAML)
	if err != nil {
		panic(fmt.Sprintf("symptoms: embedded pool is invalid: %v", err))
	}
	return pool
}

// LoadPool reads a canned pool from a YAML file.
func LoadPool(path string) ([]models.AnalysisResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read pool file at %s: %w", path, err)
	}
	pool, err := ParsePool(data)
	if err != nil {
		return nil, fmt.Errorf("pool file %s: %w", path, err)
	}
	return pool, nil
}

// ParsePool decodes a YAML list of results. The list and every entry must be
// non-empty.
func ParsePool(data []byte) ([]models.AnalysisResult, error) {
	var entries []poolEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("invalid pool YAML: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("pool is empty")
	}

	pool := make([]models.AnalysisResult, len(entries))
	for i, e := range entries {
		if len(e.PossibleConditions) == 0 {
			return nil, fmt.Errorf("pool entry %d has no suggestions", i)
		}
		for j, c := range e.PossibleConditions {
			if strings.TrimSpace(c) == "" {
				return nil, fmt.Errorf("pool entry %d suggestion %d is blank", i, j)
			}
		}
		pool[i] = models.AnalysisResult{PossibleConditions: e.PossibleConditions}
	}
	return pool, nil
}
