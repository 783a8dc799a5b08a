package footprint

// Upsert moves fp to the front of history, replacing any footprint with the
// same URL, and truncates the result to MaxFootprints. history is not modified.
func Upsert(history []Footprint, fp Footprint) []Footprint {
	n := len(history) + 1
	if n > MaxFootprints {
		n = MaxFootprints
	}
	out := make([]Footprint, 0, n)
	out = append(out, fp)
	for _, f := range history {
		if len(out) == MaxFootprints {
			break
		}
		if f.URL == fp.URL {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Delete returns history without the footprint whose URL is url.
func Delete(history []Footprint, url string) []Footprint {
	out := make([]Footprint, 0, len(history))
	for _, f := range history {
		if f.URL != url {
			out = append(out, f)
		}
	}
	return out
}

// IndexOf returns the position of the footprint with the given URL, or -1.
func IndexOf(history []Footprint, url string) int {
	for i, f := range history {
		if f.URL == url {
			return i
		}
	}
	return -1
}
