package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/pxbind/internal/build"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
	StatusSkip   = "skipped"
)

var ErrNoBuild = errors.New("storage: no matching build")

// Store keeps one directory per build under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type BuildMetadata struct {
	ID          string    `json:"id"`
	Target      string    `json:"target"`
	Host        string    `json:"host"`
	Mode        string    `json:"mode"`
	Compiler    string    `json:"compiler"`
	Family      string    `json:"family"`
	Features    []string  `json:"features"`
	Timestamp   time.Time `json:"timestamp"`
	Fingerprint string    `json:"fingerprint"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Duration    float64   `json:"duration"`
	Sources     int       `json:"sources"`
	Includes    int       `json:"includes"`
	Archives    []string  `json:"archives,omitempty"`
}

// Save writes metadata.json and units.csv for a build and returns its id.
func (s *Store) Save(meta *BuildMetadata, timings []build.Timing) (string, error) {
	if meta.ID == "" {
		return "", fmt.Errorf("storage: build without id")
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	buildDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(buildDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(buildDir, "units.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"unit", "path", "seconds"}); err != nil {
		return "", err
	}
	for _, t := range timings {
		row := []string{t.Unit, t.Path, strconv.FormatFloat(t.Duration.Seconds(), 'f', 6, 64)}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every recorded build, oldest first.
func (s *Store) List() ([]BuildMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BuildMetadata{}, nil
		}
		return nil, err
	}

	builds := make([]BuildMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		builds = append(builds, *meta)
	}

	sort.Slice(builds, func(i, j int) bool {
		return builds[i].Timestamp.Before(builds[j].Timestamp)
	})
	return builds, nil
}

func (s *Store) Load(id string) (*BuildMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta BuildMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTimings reads the per-source compile times of a build.
func (s *Store) LoadTimings(id string) ([]build.Timing, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "units.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []build.Timing{}, nil
	}

	timings := make([]build.Timing, 0, len(records)-1)
	for _, record := range records[1:] {
		secs, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			continue
		}
		timings = append(timings, build.Timing{
			Unit:     record[0],
			Path:     record[1],
			Duration: time.Duration(secs * float64(time.Second)),
		})
	}
	return timings, nil
}

// LastSuccess returns the newest successful build for target.
func (s *Store) LastSuccess(target string) (*BuildMetadata, error) {
	builds, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := len(builds) - 1; i >= 0; i-- {
		if builds[i].Target == target && builds[i].Status == StatusOK {
			return &builds[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoBuild, target)
}
