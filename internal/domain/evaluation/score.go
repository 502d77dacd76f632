package evaluation

import (
	"math"
	"strings"
)

// Scale is the maximum score of an evaluation stage.
type Scale int

const (
	ScaleSelf     Scale = 10
	ScaleSuperior Scale = 100
	ScaleTop      Scale = 100
)

// ParseScale maps the scale names used by the dashboard. Unknown names fall
// back to the 100-point scale.
func ParseScale(name string) Scale {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "self":
		return ScaleSelf
	}
	return ScaleSuperior
}

func (s Scale) Max() float64 {
	if s <= 0 {
		return float64(ScaleSuperior)
	}
	return float64(s)
}

// Valid reports whether score is a legal submission on this scale.
func (s Scale) Valid(score float64) bool {
	return score >= 1 && score <= s.Max()
}

// Percent normalises a score to 0..100. Scores above the maximum of the
// 10-point scale are taken to be percentages already.
func (s Scale) Percent(score float64) float64 {
	if !Finite(score) || score <= 0 {
		return 0
	}
	pct := score * 100 / s.Max()
	if score > s.Max() {
		pct = score
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Finite reports whether score is neither NaN nor infinite.
func Finite(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0)
}

type BandKey string

const (
	BandNeedsImprovement BandKey = "needs_improvement"
	BandAverage          BandKey = "average"
	BandGood             BandKey = "good"
	BandExcellent        BandKey = "excellent"
)

type Band struct {
	Tier  int     `json:"tier"`
	Key   BandKey `json:"key"`
	Label string  `json:"label"`
	Color Color   `json:"color"`
}

type bandRule struct {
	upTo float64
	band Band
}

// bandTable is ordered by threshold; a percentage lands in the first band
// whose upper bound it does not exceed.
var bandTable = []bandRule{
	{upTo: 30, band: Band{Tier: 1, Key: BandNeedsImprovement, Label: "Needs improvement", Color: ColorDanger}},
	{upTo: 60, band: Band{Tier: 2, Key: BandAverage, Label: "Average", Color: ColorWarning}},
	{upTo: 80, band: Band{Tier: 3, Key: BandGood, Label: "Good", Color: ColorPrimary}},
	{upTo: 100, band: Band{Tier: 4, Key: BandExcellent, Label: "Excellent", Color: ColorSuccess}},
}

var noScoreBand = Band{Tier: 1, Key: BandNeedsImprovement, Label: "No score", Color: ColorDefault}

// ScoreBand classifies a score into one of four qualitative bands.
func ScoreBand(score float64, scale Scale) Band {
	if !Finite(score) || score <= 0 {
		return noScoreBand
	}
	pct := scale.Percent(score)
	for _, rule := range bandTable {
		if pct <= rule.upTo {
			return rule.band
		}
	}
	return bandTable[len(bandTable)-1].band
}

// BandOf classifies an evaluation's own score on its own scale.
func BandOf(e Evaluation) Band {
	if e == nil {
		return noScoreBand
	}
	return ScoreBand(e.Details().Score, e.Scale())
}
