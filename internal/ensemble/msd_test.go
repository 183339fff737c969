package ensemble

import (
	"testing"
)

func TestAccumulateAfterResetIsZero(t *testing.T) {
	e := New(5)
	e.Step(1, 1, constSampler(2))
	e.Reset(7)

	var s Series
	tm, msd := s.Accumulate(e, 0.5)
	if msd != 0 {
		t.Errorf("expected msd 0 after reset, got %f", msd)
	}
	if tm != 0.5 {
		t.Errorf("expected t 0.5, got %f", tm)
	}
	if s.Len() != 1 || s.Time[0] != 0.5 || s.MSD[0] != 0 {
		t.Errorf("unexpected series: %+v", s)
	}
}

func TestAccumulateMean(t *testing.T) {
	e := New(2)
	e.Step(0.5, 1, constSampler(1))

	var s Series
	_, msd := s.Accumulate(e, 1)
	if msd != 3 {
		t.Errorf("expected msd 3, got %f", msd)
	}
}

func TestAccumulateEmptyEnsemble(t *testing.T) {
	var s Series
	_, msd := s.Accumulate(New(0), 0)
	if msd != 0 {
		t.Errorf("empty ensemble should give 0, got %f", msd)
	}
}

func TestSeriesAppendOnly(t *testing.T) {
	var s Series
	for i := 1; i <= 4; i++ {
		s.Append(float64(i), float64(i*i))
	}
	if s.Len() != 4 || len(s.MSD) != 4 {
		t.Fatalf("expected 4 samples, got %d/%d", s.Len(), len(s.MSD))
	}

	samples := s.Samples()
	back := SeriesFromSamples(samples)
	if back.Len() != 4 || back.MSD[3] != 16 || back.Time[2] != 3 {
		t.Errorf("unexpected rebuilt series: %+v", back)
	}
}
