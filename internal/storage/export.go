package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/qpulse/internal/experiment"
)

// ExportData is the flat JSON form of a run for external tooling.
type ExportData struct {
	Name        string             `json:"name"`
	Basis       string             `json:"basis"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	Populations [][]float64        `json:"populations"`
	Metrics     map[string]float64 `json:"metrics"`
}

func ExportJSON(w io.Writer, name, basisName string, duration float64, result *experiment.Result) error {
	data := ExportData{
		Name:        name,
		Basis:       basisName,
		Duration:    duration,
		Steps:       len(result.Times),
		Times:       result.Times,
		Populations: result.Populations,
		Metrics:     result.Metrics,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONFile(path, name, basisName string, duration float64, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, name, basisName, duration, result)
}
