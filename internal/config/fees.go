package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FeeItem is one extra line in a quote's price breakdown
type FeeItem struct {
	Label  string  `yaml:"label"`
	Amount float64 `yaml:"amount"`
}

type feeSchedule struct {
	Fees []FeeItem `yaml:"fees"`
}

// LoadFeeSchedule reads quote fee line items from a YAML file:
//
//	fees:
//	  - label: Notary fees
//	    amount: 150000
//
// An empty path yields no fees.
func LoadFeeSchedule(path string) ([]FeeItem, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fee schedule: %w", err)
	}

	var schedule feeSchedule
	if err := yaml.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("failed to parse fee schedule: %w", err)
	}

	for i, f := range schedule.Fees {
		if f.Label == "" {
			return nil, fmt.Errorf("fee %d has no label", i+1)
		}
	}
	return schedule.Fees, nil
}
