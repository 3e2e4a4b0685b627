// Package storage persists simulation runs: one directory per run with
// json metadata and the temperature trace as csv.
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

	"github.com/san-kum/dpdsim/internal/config"
	"github.com/san-kum/dpdsim/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	N           int                `json:"n"`
	Density     float64            `json:"density"`
	Dt          float64            `json:"dt"`
	Seed        int64              `json:"seed"`
	Thermostat  string             `json:"thermostat"`
	Gamma       float64            `json:"gamma"`
	TGamma      float64            `json:"tgamma"`
	Temperature float64            `json:"temperature"`
	Steps       int64              `json:"steps"`
	Metrics     map[string]float64 `json:"metrics"`
	StressXZ    float64            `json:"stress_xz,omitempty"`
	StressZX    float64            `json:"stress_zx,omitempty"`
}

func (s *Store) Save(cfg *config.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", cfg.Thermostat.Type, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		N:           cfg.N,
		Density:     cfg.Density,
		Dt:          cfg.Dt,
		Seed:        cfg.Seed,
		Thermostat:  cfg.Thermostat.Type,
		Gamma:       cfg.Thermostat.Gamma,
		TGamma:      cfg.Thermostat.TGamma,
		Temperature: cfg.Thermostat.Temperature,
		Steps:       result.StepsTaken,
		Metrics:     result.Metrics,
		StressXZ:    result.StressXZ,
		StressZX:    result.StressZX,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature"}); err != nil {
		return "", err
	}
	for i, t := range result.Times {
		row := []string{
			strconv.FormatFloat(t, 'g', -1, 64),
			strconv.FormatFloat(result.Temperature[i], 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.LoadMetadata(e.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads back the time/temperature trace of a stored run.
func (s *Store) LoadTrace(runID string) (times, temps []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		t, err1 := strconv.ParseFloat(row[0], 64)
		temp, err2 := strconv.ParseFloat(row[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		times = append(times, t)
		temps = append(temps, temp)
	}
	return times, temps, nil
}
