package axis

import "strings"

// WrapFactor scales the bandwidth into the maximum wrapped line width.
const WrapFactor = 1.1

// Wrap greedily packs the words of label into lines no wider than
// maxWidth. A single word wider than maxWidth gets a line of its own and is
// never truncated.
func Wrap(label string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(label)
	if len(words) == 0 {
		return []string{label}
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if width(candidate) > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	return append(lines, line)
}
