package analysis

import (
	"fmt"
	"math"
	"strings"

	"codesensei/packages/config"
	"codesensei/types"
)

const maxScore = 10.0

// ComplexityScorer computes a 0-10 complexity heuristic from the language
// mix and the number of listed files.
type ComplexityScorer interface {
	Name() string
	Score(langs types.LanguageStats, fileCount int) float64
}

// BasicComplexity scores two points per language plus one per hundred files.
type BasicComplexity struct{}

func (BasicComplexity) Name() string { return "basic" }

func (BasicComplexity) Score(langs types.LanguageStats, fileCount int) float64 {
	score := float64(len(langs))*2 + float64(fileCount)/100
	return round1(math.Min(maxScore, score))
}

// WeightedComplexity adds per-language weights to the diversity term and
// caps the file-count contribution at ten points.
type WeightedComplexity struct {
	Weights       map[string]float64
	DefaultWeight float64
}

func (WeightedComplexity) Name() string { return "weighted" }

func (w WeightedComplexity) Score(langs types.LanguageStats, fileCount int) float64 {
	weightSum := 0.0
	for name := range langs {
		weightSum += w.weight(name)
	}
	score := float64(len(langs))*0.5 + weightSum*0.3 + math.Min(5, float64(fileCount)/50)*2
	return round1(math.Min(maxScore, score))
}

func (w WeightedComplexity) weight(name string) float64 {
	if v, ok := w.Weights[name]; ok {
		return v
	}
	return w.DefaultWeight
}

// NewComplexityScorer returns the strategy named by strategy.
func NewComplexityScorer(strategy string, scoring config.ScoringConfig) (ComplexityScorer, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "basic":
		return BasicComplexity{}, nil
	case "weighted", "enhanced", "":
		return WeightedComplexity{
			Weights:       scoring.LanguageWeights,
			DefaultWeight: scoring.DefaultLanguageWeight,
		}, nil
	default:
		return nil, fmt.Errorf("unknown complexity strategy %q", strategy)
	}
}

// ComplexityLevel maps a score to the label of the first threshold it falls
// below, or top when it clears them all.
func ComplexityLevel(score float64, levels []config.LevelThreshold, top string) string {
	for _, level := range levels {
		if score < level.Below {
			return level.Label
		}
	}
	return top
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
