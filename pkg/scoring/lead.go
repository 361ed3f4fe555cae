package scoring

import (
	"math"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Weight component names accepted by the lead scorer.
const (
	ComponentCompleteness = "completeness"
	ComponentEmail        = "email_confidence"
	ComponentPhone        = "phone_confidence"
	ComponentPriority     = "source_priority"
	ComponentIntent       = "intent"
)

// DefaultLeadWeights returns the standard component weighting.
func DefaultLeadWeights() map[string]float64 {
	return map[string]float64{
		ComponentCompleteness: 0.30,
		ComponentEmail:        0.25,
		ComponentPhone:        0.15,
		ComponentPriority:     0.20,
		ComponentIntent:       0.10,
	}
}

// LeadInputs are the raw signals for one canonical record.
type LeadInputs struct {
	HasName         bool
	HasEmail        bool
	HasPhone        bool
	HasRole         bool
	EmailConfidence *float64
	PhoneConfidence *float64
	SourcePriority  int
	IntentScore     float64
}

// LeadScorer combines weighted completeness/confidence/priority/intent
// signals into one squashed [0,1] score.
type LeadScorer struct {
	weights     map[string]float64
	maxPriority int
}

// NewLeadScorer validates the weight map up front. An empty map is a
// configuration error; maxPriority is the highest configured source priority
// and is used to normalize the priority component.
func NewLeadScorer(weights map[string]float64, maxPriority int) (*LeadScorer, error) {
	if len(weights) == 0 {
		return nil, models.NewConfigurationErrorf("lead_weights", "weight map must not be empty")
	}

	copied := make(map[string]float64, len(weights))
	for name, w := range weights {
		copied[name] = w
	}

	return &LeadScorer{weights: copied, maxPriority: maxPriority}, nil
}

// Score computes the lead score. Components are clamped to [0,1], the
// weighted sum is divided by the sum of active (non-zero) weights, and the
// result is squashed through a normalized logistic curve. Zero active weight
// yields 0.
func (s *LeadScorer) Score(in LeadInputs) float64 {
	components := map[string]float64{
		ComponentCompleteness: completeness(in),
		ComponentEmail:        confidenceOrZero(in.EmailConfidence),
		ComponentPhone:        confidenceOrZero(in.PhoneConfidence),
		ComponentPriority:     s.normalizedPriority(in.SourcePriority),
		ComponentIntent:       in.IntentScore,
	}

	var weightedSum, activeWeight float64
	for name, weight := range s.weights {
		if weight == 0 {
			continue
		}
		value, ok := components[name]
		if !ok {
			continue
		}
		weightedSum += clamp01(value) * weight
		activeWeight += weight
	}

	if activeWeight == 0 {
		return 0
	}

	return squash(weightedSum / activeWeight)
}

func completeness(in LeadInputs) float64 {
	present := 0
	if in.HasName {
		present++
	}
	if in.HasEmail {
		present++
	}
	if in.HasPhone {
		present++
	}
	if in.HasRole {
		present++
	}
	return float64(present) / 4.0
}

func (s *LeadScorer) normalizedPriority(priority int) float64 {
	if s.maxPriority <= 0 {
		return 0
	}
	return float64(priority) / float64(s.maxPriority)
}

func confidenceOrZero(confidence *float64) float64 {
	if confidence == nil {
		return 0
	}
	return *confidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// squashSteepness controls how aggressively mid-range scores separate.
const squashSteepness = 6.0

// squash maps [0,1] onto [0,1] through a logistic curve rescaled so that
// squash(0)=0 and squash(1)=1. Strictly increasing, so component
// monotonicity carries through to the final score.
func squash(x float64) float64 {
	sigmoid := func(v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-squashSteepness*(v-0.5)))
	}
	lo, hi := sigmoid(0), sigmoid(1)
	return (sigmoid(x) - lo) / (hi - lo)
}
