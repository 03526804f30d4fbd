package core

// SelectPrinter picks a printer for a job from a pool snapshot.
//
// Offline and errored printers are excluded outright. The remainder is
// narrowed by required capabilities, preferring an idle printer over a busy
// one. When narrowing empties the set and strict is false, the job falls
// back to any available printer regardless of capability match. That relaxed
// policy can under-serve jobs with real technical requirements (a color job
// on a mono printer), so it is switchable: with strict true the
// narrowed-empty case returns nil.
//
// Returns nil only when no printer is available at all (or, under strict,
// none is capable).
func SelectPrinter(pool []*Printer, requiresColor, requiresA3 bool, strict bool) *Printer {
	available := make([]*Printer, 0, len(pool))
	for _, p := range pool {
		if p.Available() {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return nil
	}

	candidates := available
	if requiresColor {
		candidates = filterPrinters(candidates, func(p *Printer) bool { return p.Color })
	}
	if requiresA3 {
		candidates = filterPrinters(candidates, func(p *Printer) bool { return p.A3 })
	}

	if len(candidates) == 0 {
		if strict {
			return nil
		}
		candidates = available
	}

	for _, p := range candidates {
		if p.Status == PrinterIdle {
			return p
		}
	}
	return candidates[0]
}

func filterPrinters(in []*Printer, keep func(*Printer) bool) []*Printer {
	out := make([]*Printer, 0, len(in))
	for _, p := range in {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
