package tei

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegments(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Segment
	}{
		{
			name: "empty",
			text: "",
			want: nil,
		},
		{
			name: "plain-only",
			text: "no markup here",
			want: []Segment{{SegmentPlain, "no markup here"}},
		},
		{
			name: "single-emphasis",
			text: "a *b* c",
			want: []Segment{
				{SegmentPlain, "a "},
				{SegmentEmphasis, "b"},
				{SegmentPlain, " c"},
			},
		},
		{
			name: "emphasis-at-start",
			text: "*Popis* census",
			want: []Segment{
				{SegmentEmphasis, "Popis"},
				{SegmentPlain, " census"},
			},
		},
		{
			name: "emphasis-at-end",
			text: "see *ibid.*",
			want: []Segment{
				{SegmentPlain, "see "},
				{SegmentEmphasis, "ibid."},
			},
		},
		{
			name: "adjacent-spans",
			text: "*a**b*",
			want: []Segment{
				{SegmentEmphasis, "a"},
				{SegmentEmphasis, "b"},
			},
		},
		{
			name: "unmatched-star-stays-plain",
			text: "a * b",
			want: []Segment{{SegmentPlain, "a * b"}},
		},
		{
			name: "trailing-unmatched-star",
			text: "*a* and *b",
			want: []Segment{
				{SegmentEmphasis, "a"},
				{SegmentPlain, " and *b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segments(tt.text)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Segments(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

// Concatenating the segment texts reproduces the input minus the delimiters.
func TestSegmentsLossless(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"a *b* c", "a b c"},
		{"*Popis stanovništva* iz 1863. godine", "Popis stanovništva iz 1863. godine"},
		{"plain", "plain"},
		{"broken *span", "broken *span"}, // unmatched delimiter survives as plain text
	}
	for _, tt := range tests {
		var sb strings.Builder
		for _, seg := range Segments(tt.text) {
			sb.WriteString(seg.Text)
		}
		assert.Equal(t, tt.want, sb.String(), "input %q", tt.text)
	}
}

func TestAppendMixed(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantText     string
		wantChildren int
		wantTails    []string
	}{
		{
			name:     "plain-text-only",
			text:     "nothing special",
			wantText: "nothing special",
		},
		{
			name:         "leading-plain-and-emphasis",
			text:         "from *Popis* 1863",
			wantText:     "from ",
			wantChildren: 1,
			wantTails:    []string{" 1863"},
		},
		{
			name:         "emphasis-first",
			text:         "*Popis* census",
			wantText:     "",
			wantChildren: 1,
			wantTails:    []string{" census"},
		},
		{
			name:         "two-spans",
			text:         "*a* x *b* y",
			wantText:     "",
			wantChildren: 2,
			wantTails:    []string{" x ", " y"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := NewNode("rs", "")
			appendMixed(parent, tt.text)

			assert.Equal(t, tt.wantText, parent.Text)
			require.Len(t, parent.Children, tt.wantChildren)
			for i, tail := range tt.wantTails {
				child := parent.Children[i]
				assert.Equal(t, "hi", child.Tag)
				assert.Equal(t, "italic", child.Attrs[0].Value)
				assert.Equal(t, tail, child.Tail)
			}
		})
	}
}
