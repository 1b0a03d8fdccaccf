package stats

const (
	MessageNotSignificant = "no statistically significant difference detected, treat as chance variation"
	MessageSignificant    = "statistically significant difference detected, reject equal-means/equal-distribution hypothesis"
)

// Decision is the plain-language outcome of the final comparison.
type Decision struct {
	Rejected bool    `json:"rejected" yaml:"rejected"`
	PValue   float64 `json:"p_value" yaml:"p_value"`
	Alpha    float64 `json:"alpha" yaml:"alpha"`
	Message  string  `json:"message" yaml:"message"`
}

// Interpret applies alpha to the final test's p-value.
func Interpret(result TestResult, alpha float64) Decision {
	d := Decision{
		Rejected: Rejects(result.PValue, alpha),
		PValue:   result.PValue,
		Alpha:    alpha,
		Message:  MessageNotSignificant,
	}
	if d.Rejected {
		d.Message = MessageSignificant
	}
	return d
}
