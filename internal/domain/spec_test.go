package domain

import "testing"

func TestExtractSpecs(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected ExtractedSpec
	}{
		{
			name:     "empty input",
			input:    []string{},
			expected: UnknownExtractedSpec(),
		},
		{
			name:  "typical phone",
			input: []string{"8GB RAM", "128GB ROM", "5000mAh Battery", "5G Support"},
			expected: ExtractedSpec{
				RAM:       "8GB",
				Storage:   "128GB",
				Network:   "5G",
				Color:     UnknownSpec,
				Processor: UnknownProcessor,
				Battery:   "5000mAh Battery",
				Display:   UnknownDisplay,
				Camera:    UnknownCamera,
			},
		},
		{
			name: "combined string with spaces",
			input: []string{
				"6 GB RAM | 64 GB ROM | Expandable Upto 1 TB",
				"16.51 cm (6.5 inch) HD+ Display",
				"50MP + 2MP | 8MP Front Camera",
				"Helio G85 Processor",
				"4G VoLTE",
			},
			expected: ExtractedSpec{
				RAM:       "6GB",
				Storage:   "64GB",
				Network:   "4G",
				Color:     UnknownSpec,
				Processor: "Helio G85",
				Battery:   UnknownBattery,
				Display:   "16.51 cm (6.5 inch) HD+ Display",
				Camera:    "50MP + 2MP | 8MP Front Camera",
			},
		},
		{
			name:  "megabyte units",
			input: []string{"512 MB RAM", "4 MB ROM"},
			expected: ExtractedSpec{
				RAM:       "512MB",
				Storage:   "4MB",
				Network:   UnknownSpec,
				Color:     UnknownSpec,
				Processor: UnknownProcessor,
				Battery:   UnknownBattery,
				Display:   UnknownDisplay,
				Camera:    UnknownCamera,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSpecs(tt.input); got != tt.expected {
				t.Errorf("ExtractSpecs() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestExtractSpecs_LastMatchWins(t *testing.T) {
	got := ExtractSpecs([]string{"4GB RAM", "8GB RAM"})
	if got.RAM != "8GB" {
		t.Errorf("RAM = %q, want %q", got.RAM, "8GB")
	}
}

func TestExtractSpecs_FiveGPreferredInSameString(t *testing.T) {
	got := ExtractSpecs([]string{"Supports 4G and 5G networks"})
	if got.Network != "5G" {
		t.Errorf("Network = %q, want %q", got.Network, "5G")
	}
}
