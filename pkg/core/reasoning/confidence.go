package reasoning

// failedThreshold marks a step as failed for the completeness penalty.
const failedThreshold = 0.1

// AggregateConfidence combines per-step confidence into one chain-level
// score. Step i (0-indexed) of N is weighted 1.0 + 0.1*(N-i), so earlier
// steps count more. A completeness penalty max(0.5, 1 - failed/N) then
// scales the weighted average. The result stays in [0, 1] for step
// confidences in [0, 1]; an empty chain scores 0.
func AggregateConfidence(steps []Step) float64 {
	n := len(steps)
	if n == 0 {
		return 0
	}

	var weightedSum, weightTotal float64
	failed := 0
	for i, step := range steps {
		weight := 1.0 + 0.1*float64(n-i)
		weightedSum += step.Confidence * weight
		weightTotal += weight
		if step.Confidence < failedThreshold {
			failed++
		}
	}

	average := weightedSum / weightTotal

	penalty := 1 - float64(failed)/float64(n)
	if penalty < 0.5 {
		penalty = 0.5
	}

	return average * penalty
}
