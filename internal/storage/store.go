package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Store keeps one directory per analysis run: meta.json describing the
// inputs and data.csv holding the numeric result table.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata identifies a stored analysis. Header records the data.csv
// column names so a stored run can be re-rendered without re-analyzing.
type RunMetadata struct {
	ID           string             `json:"id"`
	Kind         string             `json:"kind"` // damping | stability | sweep | amplification
	Engine       string             `json:"engine"`
	Cluster      string             `json:"cluster,omitempty"`
	Environments []string           `json:"environments"`
	FrequencyHz  float64            `json:"frequency_hz,omitempty"`
	Parameter    string             `json:"parameter,omitempty"`
	Timestamp    time.Time          `json:"timestamp"`
	Summary      map[string]float64 `json:"summary,omitempty"`
	Header       []string           `json:"header"`
}

// Save assigns the run an ID, writes meta.json and data.csv, and returns
// the ID.
func (s *Store) Save(meta RunMetadata, header []string, rows [][]float64) (string, error) {
	if meta.Kind == "" {
		return "", fmt.Errorf("run kind must be set")
	}
	meta.ID = fmt.Sprintf("%s_%d", meta.Kind, time.Now().UnixNano())
	meta.Timestamp = time.Now()
	meta.Header = header

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "meta.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "data.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()
	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return "", err
	}
	record := make([]string, len(header))
	for _, row := range rows {
		if len(row) != len(header) {
			return "", fmt.Errorf("row width %d does not match header width %d", len(row), len(header))
		}
		for i, v := range row {
			record[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	return meta.ID, nil
}

// List returns the metadata of every stored run, newest first. Entries
// with unreadable metadata are skipped rather than failing the listing.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "meta.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "meta.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadData reads a run's numeric table back: header plus rows.
func (s *Store) LoadData(runID string) ([]string, [][]float64, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "data.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for i, cell := range record {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("run %s: bad cell %q: %w", runID, cell, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}
