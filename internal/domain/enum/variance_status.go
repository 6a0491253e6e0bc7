package enum

import "encoding/json"

// VarianceStatus classifies a drawer count against the expected cash.
type VarianceStatus int

const (
	VarianceBalanced VarianceStatus = 0
	VarianceSurplus  VarianceStatus = 1
	VarianceShortage VarianceStatus = 2
)

func (s VarianceStatus) String() string {
	return [...]string{"BALANCED", "SURPLUS", "SHORTAGE"}[s]
}

// Label is the wording shown to cashiers.
func (s VarianceStatus) Label() string {
	return [...]string{"Cuadrado", "Sobrante", "Faltante"}[s]
}

// ClassifyVariance maps physical minus expected cash to a status.
func ClassifyVariance(variance int64) VarianceStatus {
	switch {
	case variance > 0:
		return VarianceSurplus
	case variance < 0:
		return VarianceShortage
	default:
		return VarianceBalanced
	}
}

func (s VarianceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *VarianceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "SURPLUS":
		*s = VarianceSurplus
	case "SHORTAGE":
		*s = VarianceShortage
	default:
		*s = VarianceBalanced
	}
	return nil
}
