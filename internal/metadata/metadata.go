package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"clawbot/internal/services"
)

// Suffix is appended to a document path to name its record.
const Suffix = ".meta.json"

// DefaultOrganizedBy identifies the agent when a stamp leaves it blank.
const DefaultOrganizedBy = "VirtualClawbot"

// Stamp carries the provenance values applied to a record.
type Stamp struct {
	Version     string
	OrganizedBy string
}

// Record is the persisted provenance document.
type Record struct {
	MetadataVersion string `json:"metadata_version"`
	OrganizedBy     string `json:"organized_by"`
	OriginalFile    string `json:"original_file"`
}

// MetadataPath returns the record path for a document.
func MetadataPath(documentPath string) string {
	return documentPath + Suffix
}

// Annotate writes the record for documentPath, replacing any previous one,
// and returns the record path.
func Annotate(documentPath string, stamp Stamp) (string, error) {
	version := strings.TrimSpace(stamp.Version)
	if version == "" {
		return "", services.Wrap(services.ErrValidation, "metadata", "annotate", "Metadata version is empty", nil)
	}
	organizedBy := strings.TrimSpace(stamp.OrganizedBy)
	if organizedBy == "" {
		organizedBy = DefaultOrganizedBy
	}
	record := Record{
		MetadataVersion: version,
		OrganizedBy:     organizedBy,
		OriginalFile:    filepath.Base(documentPath),
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}
	data = append(data, '\n')

	path := MetadataPath(documentPath)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", services.Wrap(services.ErrWrite, "metadata", "annotate", "Failed to write metadata record", err)
	}
	return path, nil
}

// Read loads a record from path.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read metadata %s: %w", path, err)
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("decode metadata %s: %w", path, err)
	}
	return record, nil
}
