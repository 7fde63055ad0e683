package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/otienod/zonedash/internal/profile"
)

type jsonExport struct {
	ExportedAt string                     `json:"exported_at"`
	Login      string                     `json:"login,omitempty"`
	Statistics *profile.ProfileStatistics `json:"statistics"`
}

// ToJSON writes the full computed statistics with an export timestamp.
func ToJSON(stats *profile.ProfileStatistics, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Login:      stats.Login,
		Statistics: stats,
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// categoryNames returns map keys in a stable order for row output.
func categoryNames(byCategory map[string]float64) []string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
