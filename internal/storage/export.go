package storage

import (
	"encoding/json"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/brownsim/internal/ensemble"
)

type ExportData struct {
	Run     RunMetadata       `json:"run"`
	Samples []ensemble.Sample `json:"samples"`
}

// ExportJSON writes a run's metadata and MSD samples as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Run: *meta, Samples: series.Samples()})
}

// ExportCSV writes a run's MSD samples with a time,msd header.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return gocsv.Marshal(series.Samples(), w)
}
