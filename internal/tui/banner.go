package tui

import "strings"

type bannerLine struct {
	text    string
	isError bool
}

// banner collects notifications raised during a pass and shows them above
// the next form.
type banner struct {
	lines []bannerLine
}

func (b *banner) Notify(title, message string) {
	b.lines = append(b.lines, bannerLine{text: message})
}

func (b *banner) Error(msg string) {
	b.lines = append(b.lines, bannerLine{text: msg, isError: true})
}

// drain renders the pending lines and forgets them.
func (b *banner) drain() string {
	if len(b.lines) == 0 {
		return ""
	}
	out := make([]string, 0, len(b.lines))
	for _, l := range b.lines {
		if l.isError {
			out = append(out, StyleError.Render("✗ "+l.text))
		} else {
			out = append(out, StyleSuccess.Render("• "+l.text))
		}
	}
	b.lines = nil
	return strings.Join(out, "\n")
}
