package core

// Price computes the total charge for a job spec against a rate table.
// The per-page rate is keyed by (size, color, sides); A3 uses exactly twice
// the matching A4 rate. The total is floored at MinCharge. Pure function.
func Price(spec JobSpec, rates *Rates) (float64, error) {
	if rates == nil {
		return 0, &ConfigurationError{Reason: "rates not configured"}
	}
	if err := validateRates(rates); err != nil {
		return 0, err
	}

	var rate float64
	switch spec.Color {
	case ColorBW:
		if spec.Sides == SidesDuplex {
			rate = rates.BWDuplexA4
		} else {
			rate = rates.BWSingleA4
		}
	case ColorColor:
		if spec.Sides == SidesDuplex {
			rate = rates.ColorDuplexA4
		} else {
			rate = rates.ColorSingleA4
		}
	default:
		return 0, invalidField("color", "must be bw or color")
	}

	if spec.Size == SizeA3 {
		rate *= 2
	}

	total := float64(spec.Pages) * float64(spec.Copies) * rate
	if total < rates.MinCharge {
		total = rates.MinCharge
	}
	return total, nil
}

func validateRates(r *Rates) error {
	switch {
	case r.BWSingleA4 <= 0:
		return &ConfigurationError{Reason: "missing rate bwSingleA4"}
	case r.BWDuplexA4 <= 0:
		return &ConfigurationError{Reason: "missing rate bwDuplexA4"}
	case r.ColorSingleA4 <= 0:
		return &ConfigurationError{Reason: "missing rate colorSingleA4"}
	case r.ColorDuplexA4 <= 0:
		return &ConfigurationError{Reason: "missing rate colorDuplexA4"}
	case r.MinCharge < 0:
		return &ConfigurationError{Reason: "minCharge must be non-negative"}
	}
	return nil
}
