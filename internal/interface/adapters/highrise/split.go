package highrise

import "strings"

// splitMessage breaks text into chunks of at most max runes, preferring
// line boundaries.
func splitMessage(text string, max int) []string {
	if len([]rune(text)) <= max {
		return []string{text}
	}

	var (
		chunks  []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, string(current))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		need := len(r)
		if len(current) > 0 {
			need++
		}
		if len(current)+need <= max {
			if len(current) > 0 {
				current = append(current, '\n')
			}
			current = append(current, r...)
			continue
		}

		flush()
		for len(r) > max {
			chunks = append(chunks, string(r[:max]))
			r = r[max:]
		}
		current = append(current, r...)
	}
	flush()
	return chunks
}
