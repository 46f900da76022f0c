package tei

import "regexp"

// SegmentKind distinguishes plain text from emphasised spans.
type SegmentKind int

const (
	SegmentPlain SegmentKind = iota
	SegmentEmphasis
)

// Segment is one run of text produced by the inline markup converter.
type Segment struct {
	Kind SegmentKind
	Text string
}

// emphasisPattern matches one `*emphasis*` span; the shortest-span semantics
// come from the negated character class.
var emphasisPattern = regexp.MustCompile(`\*([^*]+)\*`)

// Segments converts the restricted `*emphasis*` markup into an ordered
// sequence of plain and emphasis runs. Spans do not nest or overlap; the
// scanner takes the leftmost closing delimiter each time. An unmatched `*`
// carries no emphasis, so the remainder stays plain. Concatenating all
// segment texts in order reproduces the input minus the delimiters. Empty
// input yields nil, not a single empty segment.
func Segments(text string) []Segment {
	if text == "" {
		return nil
	}

	var segs []Segment
	pos := 0
	for _, m := range emphasisPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > pos {
			segs = append(segs, Segment{Kind: SegmentPlain, Text: text[pos:m[0]]})
		}
		segs = append(segs, Segment{Kind: SegmentEmphasis, Text: text[m[2]:m[3]]})
		pos = m[1]
	}
	if pos < len(text) {
		segs = append(segs, Segment{Kind: SegmentPlain, Text: text[pos:]})
	}
	return segs
}

// appendMixed writes segments into parent as mixed content: leading plain
// text becomes the parent's text, emphasis spans become <hi rend="italic">
// children, and plain text between spans rides on the previous child's tail.
// Text with no markup at all is stored verbatim.
func appendMixed(parent *Node, text string) {
	if text == "" {
		return
	}
	segs := Segments(text)
	for _, seg := range segs {
		switch seg.Kind {
		case SegmentEmphasis:
			hi := NewNode("hi", seg.Text).WithAttr("rend", "italic")
			parent.Append(hi)
		default:
			if len(parent.Children) == 0 {
				parent.Text += seg.Text
			} else {
				last := parent.Children[len(parent.Children)-1]
				last.Tail += seg.Text
			}
		}
	}
}
