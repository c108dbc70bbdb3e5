package domain

import (
	"encoding/json"
	"strconv"
)

// Vote is a single estimate. Numeric votes carry a value; sentinel votes
// ("?" and friends) count toward the tally but never toward the average.
// On the wire a vote is a bare number or the sentinel string, matching what
// clients send.
type Vote struct {
	value float64
	label string
}

func NumericVote(v float64) Vote {
	return Vote{value: v}
}

func SentinelVote(label string) Vote {
	return Vote{label: label}
}

func (v Vote) IsNumeric() bool { return v.label == "" }

func (v Vote) Value() float64 { return v.value }

func (v Vote) Label() string { return v.label }

func (v Vote) MarshalJSON() ([]byte, error) {
	if v.IsNumeric() {
		return []byte(strconv.FormatFloat(v.value, 'f', -1, 64)), nil
	}
	return json.Marshal(v.label)
}

func (v *Vote) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumericVote(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = SentinelVote(s)
	return nil
}
