package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/pxbind/internal/build"
)

type ExportUnit struct {
	Unit    string  `json:"unit"`
	Path    string  `json:"path"`
	Seconds float64 `json:"seconds"`
}

type ExportData struct {
	Build BuildMetadata `json:"build"`
	Units []ExportUnit  `json:"units"`
	Total float64       `json:"compile_seconds"`
}

func newExport(meta *BuildMetadata, timings []build.Timing) ExportData {
	data := ExportData{Build: *meta, Units: make([]ExportUnit, len(timings))}
	for i, t := range timings {
		data.Units[i] = ExportUnit{Unit: t.Unit, Path: t.Path, Seconds: t.Duration.Seconds()}
		data.Total += t.Duration.Seconds()
	}
	return data
}

// WriteJSON writes a build record with its timings as indented JSON.
func WriteJSON(w io.Writer, meta *BuildMetadata, timings []build.Timing) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExport(meta, timings))
}

func ExportJSON(path string, meta *BuildMetadata, timings []build.Timing) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, timings)
}
