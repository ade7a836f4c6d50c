// Package importer reads a plan file, a portable description of a study plan
// and its exam dates, and turns it into plan requests.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlanFile is the top-level structure of a plan file.
type PlanFile struct {
	Plan  PlanImport   `json:"plan" yaml:"plan"`
	Exams []ExamImport `json:"exams,omitempty" yaml:"exams,omitempty"`
}

// PlanImport holds the plan configuration. Hours are keyed by weekday name
// ("monday" or "mon"); resources list the enabled resource names.
type PlanImport struct {
	StartDate string             `json:"start_date" yaml:"start_date"`
	EndDate   string             `json:"end_date" yaml:"end_date"`
	ExamDate  string             `json:"exam_date,omitempty" yaml:"exam_date,omitempty"`
	Hours     map[string]float64 `json:"hours" yaml:"hours"`
	Resources []string           `json:"resources" yaml:"resources"`
	Balance   string             `json:"balance,omitempty" yaml:"balance,omitempty"`
}

// ExamImport is one practice exam.
type ExamImport struct {
	Date  string `json:"date" yaml:"date"`
	Label string `json:"label" yaml:"label"`
}

// LoadPlanFile reads a plan file. Files ending in .json are parsed as JSON,
// anything else as YAML.
func LoadPlanFile(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file PlanFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &file)
	default:
		err = yaml.Unmarshal(data, &file)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &file, nil
}
