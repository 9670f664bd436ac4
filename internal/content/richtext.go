package content

import (
	"regexp"
	"strings"
)

var boldSpan = regexp.MustCompile(`\*\*.*?\*\*`)

// Segment is a run of text drawn in one weight.
type Segment struct {
	Text  string
	Bold  bool
	Width int
}

// ParseRich splits a line into segments. Text between ** markers is one bold
// segment; plain text becomes one segment per word, each keeping the space
// that followed it so that lines can wrap between words.
func ParseRich(line string) []Segment {
	var segs []Segment
	plain := func(s string) {
		if s == "" {
			return
		}
		words := strings.Split(s, " ")
		for i, w := range words {
			if i < len(words)-1 {
				w += " "
			}
			if w != "" {
				segs = append(segs, Segment{Text: w})
			}
		}
	}

	last := 0
	for _, loc := range boldSpan.FindAllStringIndex(line, -1) {
		plain(line[last:loc[0]])
		segs = append(segs, Segment{Text: line[loc[0]+2 : loc[1]-2], Bold: true})
		last = loc[1]
	}
	plain(line[last:])
	return segs
}

// Wrap measures every segment and packs them into lines narrower than
// maxWidth. A segment wider than maxWidth gets a line of its own.
func Wrap(segs []Segment, maxWidth int, measure func(Segment) int) [][]Segment {
	var lines [][]Segment
	var cur []Segment
	width := 0
	for _, s := range segs {
		s.Width = measure(s)
		if width+s.Width < maxWidth || len(cur) == 0 {
			cur = append(cur, s)
			width += s.Width
			continue
		}
		lines = append(lines, cur)
		cur = []Segment{s}
		width = s.Width
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// LineWidth sums the measured widths of a wrapped line.
func LineWidth(line []Segment) int {
	w := 0
	for _, s := range line {
		w += s.Width
	}
	return w
}
