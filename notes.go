package f1sustain

import (
	"fmt"
	"math"
	"strings"
)

// Outcome constants returned by Compare.
const (
	OutcomeFirst    = "first"
	OutcomeSecond   = "second"
	OutcomeBalanced = "balanced"
)

// Comparison is the verdict between exactly two score records.
type Comparison struct {
	First    ScoreRecord `json:"first"`
	Second   ScoreRecord `json:"second"`
	Outcome  string      `json:"outcome"`
	Winner   string      `json:"winner,omitempty"`
	RunnerUp string      `json:"runner_up,omitempty"`
	Margin   float64     `json:"margin"`
	Headline string      `json:"headline"`
	Message  string      `json:"message"`
}

// Compare declares the driver with the higher sustainability score superior.
// Equal scores are balanced and have no winner.
func Compare(first, second ScoreRecord) Comparison {
	c := Comparison{
		First:  first,
		Second: second,
		Margin: math.Abs(first.SustainabilityScore - second.SustainabilityScore),
	}
	switch {
	case first.SustainabilityScore > second.SustainabilityScore:
		c.Outcome = OutcomeFirst
		c.Winner, c.RunnerUp = first.Driver, second.Driver
		c.Headline = "Conclusion"
		c.Message = fmt.Sprintf(
			"%s demonstrates a higher sustainability performance score than %s. "+
				"This indicates more efficient tyre management, better stint stability, and minimized pit stop time loss.",
			first.Driver, second.Driver,
		)
	case second.SustainabilityScore > first.SustainabilityScore:
		c.Outcome = OutcomeSecond
		c.Winner, c.RunnerUp = second.Driver, first.Driver
		c.Headline = "Conclusion"
		c.Message = fmt.Sprintf(
			"%s demonstrates a higher sustainability performance score than %s. "+
				"This reflects stronger resource-efficient driving strategy and better tyre degradation control across the race.",
			second.Driver, first.Driver,
		)
	default:
		c.Outcome = OutcomeBalanced
		c.Headline = "Balanced Performance"
		c.Message = fmt.Sprintf(
			"Both %s and %s achieved identical sustainability scores, "+
				"indicating comparable efficiency in strategy execution and tyre usage.",
			first.Driver, second.Driver,
		)
	}
	return c
}

// BuildReport renders the score table and conclusion as markdown text.
func BuildReport(race string, c Comparison, stints map[string][]StintSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sustainable Performance: %s\n\n", race)
	fmt.Fprintf(&b, "Lap time and tyre sustainability comparison of %s vs %s.\n\n", c.First.Driver, c.Second.Driver)

	b.WriteString("## Sustainability Score Comparison\n\n")
	b.WriteString("| Driver | Avg stint (laps) | Degradation mean (s/lap) | Pit-stop loss (s) | Score |\n")
	b.WriteString("|---|---:|---:|---:|---:|\n")
	for _, r := range []ScoreRecord{c.First, c.Second} {
		fmt.Fprintf(
			&b,
			"| %s | %.2f | %.4f | %.3f | %.3f |\n",
			r.Driver,
			r.AvgStintLength,
			r.DegradationRateMean,
			r.PitStopLossTime,
			r.SustainabilityScore,
		)
	}

	for _, driver := range []string{c.First.Driver, c.Second.Driver} {
		list := stints[driver]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### Stints: %s\n\n", driver)
		for _, s := range list {
			b.WriteString("- ")
			b.WriteString(s.Description)
			if s.OpenedByPitStop {
				b.WriteString(" (pit-stop lap)")
			}
			b.WriteByte('\n')
		}
		if c.First.Driver == c.Second.Driver {
			break
		}
	}

	fmt.Fprintf(&b, "\n## %s\n\n%s\n\n", c.Headline, c.Message)
	b.WriteString("Higher score = stronger sustainability efficiency.\n")
	return b.String()
}
