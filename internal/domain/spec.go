package domain

import (
	"regexp"
	"strings"
)

// Sentinel values of ExtractedSpec fields that no specification string matched.
const (
	UnknownSpec      = "Unknown"
	UnknownProcessor = "Unknown Processor"
	UnknownBattery   = "Unknown Battery"
	UnknownDisplay   = "Unknown Display"
	UnknownCamera    = "Unknown Camera"
)

var (
	ramPattern     = regexp.MustCompile(`(\d+)\s*(gb|mb)\s*ram`)
	storagePattern = regexp.MustCompile(`(\d+)\s*(gb|mb)\s*rom`)
)

// ExtractedSpec is the structured view of a product's free-text specifications.
type ExtractedSpec struct {
	RAM       string `json:"ram"`
	Storage   string `json:"storage"`
	Network   string `json:"network"`
	Color     string `json:"color"`
	Processor string `json:"processor"`
	Battery   string `json:"battery"`
	Display   string `json:"display"`
	Camera    string `json:"camera"`
}

// UnknownExtractedSpec returns a spec with every field set to its sentinel.
func UnknownExtractedSpec() ExtractedSpec {
	return ExtractedSpec{
		RAM:       UnknownSpec,
		Storage:   UnknownSpec,
		Network:   UnknownSpec,
		Color:     UnknownSpec,
		Processor: UnknownProcessor,
		Battery:   UnknownBattery,
		Display:   UnknownDisplay,
		Camera:    UnknownCamera,
	}
}

// ExtractSpecs parses specification strings such as "8 GB RAM | 128 GB ROM"
// or "5000 mAh Battery" into an ExtractedSpec.
//
// Every string is tested against every field rule; when several strings match
// the same rule, the last one wins. Color is never derived here because it is
// not reliably present in specification lists.
func ExtractSpecs(specifications []string) ExtractedSpec {
	spec := UnknownExtractedSpec()

	for _, raw := range specifications {
		lower := strings.ToLower(raw)

		if m := ramPattern.FindStringSubmatch(lower); m != nil {
			spec.RAM = m[1] + strings.ToUpper(m[2])
		}
		if m := storagePattern.FindStringSubmatch(lower); m != nil {
			spec.Storage = m[1] + strings.ToUpper(m[2])
		}

		if strings.Contains(lower, "5g") {
			spec.Network = "5G"
		} else if strings.Contains(lower, "4g") {
			spec.Network = "4G"
		}

		if strings.Contains(lower, "processor") {
			spec.Processor = strings.TrimSpace(strings.Replace(raw, "Processor", "", 1))
		}
		if strings.Contains(lower, "mah") {
			spec.Battery = raw
		}
		if strings.Contains(lower, "camera") || strings.Contains(lower, "mp") {
			spec.Camera = raw
		}
		if strings.Contains(lower, "display") || strings.Contains(lower, "inch") {
			spec.Display = raw
		}
	}

	return spec
}
