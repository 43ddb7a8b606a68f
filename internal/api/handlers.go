package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/render"

	f1sustain "github.com/lucasjlepore/f1-sustainability"
	"github.com/lucasjlepore/f1-sustainability/llmexport"
)

type lapsQuery struct {
	Driver string `validate:"omitempty,max=64,printascii"`
}

type compareQuery struct {
	Driver1 string `validate:"omitempty,max=64,printascii"`
	Driver2 string `validate:"omitempty,max=64,printascii"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:      "ok",
		DataDir:     s.DataDir(),
		CachedRaces: s.cache.Len(),
		UptimeS:     time.Since(s.started).Seconds(),
	})
}

func (s *Server) drivers(w http.ResponseWriter, r *http.Request) {
	race, apiErr := s.loadRace(r)
	if apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}
	render.JSON(w, r, DriversResponse{
		Race:             race.Dataset.Name,
		Drivers:          race.Drivers,
		LapCount:         len(race.Laps),
		SkippedRows:      race.Dataset.Skipped,
		PitStopThreshold: llmexport.FiniteOrNil(race.Threshold),
	})
}

func (s *Server) laps(w http.ResponseWriter, r *http.Request) {
	q := lapsQuery{Driver: r.URL.Query().Get("driver")}
	if err := s.validate.Struct(q); err != nil {
		s.renderError(w, r, errInvalidQuery("driver", err.Error()))
		return
	}
	race, apiErr := s.loadRace(r)
	if apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}

	resp := LapsResponse{Race: race.Dataset.Name}
	if q.Driver == "" {
		resp.Laps = race.Laps
		render.JSON(w, r, resp)
		return
	}

	stints, err := f1sustain.Stints(race.Laps, q.Driver)
	if err != nil {
		s.renderError(w, r, errorFromDomain(err))
		return
	}
	laps := make([]f1sustain.EnrichedLap, 0, len(race.Laps))
	for _, l := range race.Laps {
		if l.Driver == q.Driver {
			laps = append(laps, l)
		}
	}
	sort.SliceStable(laps, func(i, j int) bool { return laps[i].LapNumber < laps[j].LapNumber })
	series := f1sustain.BuildSeries(race.Laps, q.Driver)

	resp.Driver = q.Driver
	resp.Laps = laps
	resp.Stints = stints
	resp.Series = &series[0]
	render.JSON(w, r, resp)
}

func (s *Server) compare(w http.ResponseWriter, r *http.Request) {
	q := compareQuery{
		Driver1: r.URL.Query().Get("driver1"),
		Driver2: r.URL.Query().Get("driver2"),
	}
	if err := s.validate.Struct(q); err != nil {
		s.renderError(w, r, errInvalidQuery("driver1,driver2", err.Error()))
		return
	}
	race, apiErr := s.loadRace(r)
	if apiErr != nil {
		s.renderError(w, r, apiErr)
		return
	}

	d1, d2, err := f1sustain.SelectPair(race.Drivers, q.Driver1, q.Driver2)
	if err != nil {
		s.renderError(w, r, errorFromDomain(err))
		return
	}
	scores, err := f1sustain.ScoreDrivers(race.Laps, d1, d2)
	if err != nil {
		s.renderError(w, r, errorFromDomain(err))
		return
	}
	comparison := f1sustain.Compare(scores[0], scores[1])

	pair := []string{d1}
	if d2 != d1 {
		pair = append(pair, d2)
	}
	stints := make(map[string][]f1sustain.StintSummary, len(pair))
	for _, d := range pair {
		st, err := f1sustain.Stints(race.Laps, d)
		if err != nil {
			s.renderError(w, r, errorFromDomain(err))
			return
		}
		stints[d] = st
	}

	if s.metrics != nil {
		s.metrics.ComparisonServed(comparison.Outcome)
	}
	render.JSON(w, r, CompareResponse{
		Race:       race.Dataset.Name,
		Driver1:    d1,
		Driver2:    d2,
		Comparison: comparison,
		Stints:     stints,
		Series:     f1sustain.BuildSeries(race.Laps, pair...),
		Report:     f1sustain.BuildReport(race.Dataset.Name, comparison, stints),
	})
}
