package ensemble

// Sample is one MSD measurement.
type Sample struct {
	Time float64 `csv:"time" json:"time"`
	MSD  float64 `csv:"msd" json:"msd"`
}

// Series is the append-only MSD history of a run. Time and MSD are parallel.
type Series struct {
	Time []float64
	MSD  []float64
}

func (s *Series) Len() int { return len(s.Time) }

func (s *Series) Append(t, msd float64) {
	s.Time = append(s.Time, t)
	s.MSD = append(s.MSD, msd)
}

func (s *Series) Samples() []Sample {
	out := make([]Sample, len(s.Time))
	for i := range s.Time {
		out[i] = Sample{Time: s.Time[i], MSD: s.MSD[i]}
	}
	return out
}

// SeriesFromSamples rebuilds a series from stored samples.
func SeriesFromSamples(samples []Sample) *Series {
	s := &Series{
		Time: make([]float64, 0, len(samples)),
		MSD:  make([]float64, 0, len(samples)),
	}
	for _, smp := range samples {
		s.Append(smp.Time, smp.MSD)
	}
	return s
}

// Accumulate measures the ensemble MSD, appends (t, msd) to the series and
// returns the appended pair.
func (s *Series) Accumulate(e *Ensemble, t float64) (float64, float64) {
	msd := e.MeanSquaredDisplacement()
	s.Append(t, msd)
	return t, msd
}
