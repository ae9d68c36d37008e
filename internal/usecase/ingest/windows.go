package ingest

import "time"

// window is one upstream-sized slice of a requested date range. The API
// rejects date spans over roughly three months, so a trailing-days request
// is split into consecutive sub-windows before pagination.
type window struct {
	from time.Time
	to   time.Time
}

func splitWindows(from time.Time, to time.Time, spanDays int) []window {
	if spanDays < 1 {
		spanDays = 1
	}

	if to.Before(from) {
		return nil
	}

	// Boundaries are inclusive upstream, so consecutive windows advance one
	// day past the previous end.
	var out []window
	for cur := from; !cur.After(to); {
		end := cur.AddDate(0, 0, spanDays)
		if end.After(to) {
			end = to
		}
		out = append(out, window{from: cur, to: end})
		cur = end.AddDate(0, 0, 1)
	}
	return out
}
