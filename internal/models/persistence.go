package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// SaveDir is where finished battles are recorded.
var SaveDir = ".saves"

// Record is a finished battle: enough to replay it deterministically.
type Record struct {
	Name        string       `yaml:"name"`
	Variant     string       `yaml:"variant"`
	Winner      Side         `yaml:"winner"`
	Rounds      int          `yaml:"rounds"`
	HealthBonus int          `yaml:"health_bonus,omitempty"`
	Allocations []Allocation `yaml:"allocations"`
	FinishedAt  time.Time    `yaml:"finished_at"`
	Log         []string     `yaml:"-"`
}

type recordLog struct {
	Lines []string `yaml:"lines"`
}

// Save writes record.yaml and log.yaml under dir/name.
func (r *Record) Save(dir string) error {
	if r.Name == "" {
		return fmt.Errorf("record name is required")
	}
	path := filepath.Join(dir, r.Name)
	if err := os.MkdirAll(path, 0755); err != nil {
		return err
	}

	recordData, err := yaml.Marshal(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(path, "record.yaml"), recordData, 0644); err != nil {
		return err
	}

	logData, err := yaml.Marshal(recordLog{Lines: r.Log})
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(path, "log.yaml"), logData, 0644)
}

// LoadRecord reads a record saved by Save.
func LoadRecord(dir, name string) (*Record, error) {
	path := filepath.Join(dir, name)

	recordData, err := os.ReadFile(filepath.Join(path, "record.yaml"))
	if err != nil {
		return nil, err
	}
	var record Record
	if err := yaml.Unmarshal(recordData, &record); err != nil {
		return nil, fmt.Errorf("parsing record %s: %w", name, err)
	}

	// The log is optional; a record without one still replays.
	logData, err := os.ReadFile(filepath.Join(path, "log.yaml"))
	if err == nil {
		var l recordLog
		if err := yaml.Unmarshal(logData, &l); err != nil {
			return nil, fmt.Errorf("parsing log %s: %w", name, err)
		}
		record.Log = l.Lines
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return &record, nil
}

// ListRecords returns the names of saved records, sorted.
func ListRecords(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var records []string
	for _, entry := range entries {
		if entry.IsDir() {
			// record.yaml marks a complete record
			if _, err := os.Stat(filepath.Join(dir, entry.Name(), "record.yaml")); err == nil {
				records = append(records, entry.Name())
			}
		}
	}
	sort.Strings(records)
	return records, nil
}
