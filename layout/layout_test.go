package layout

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

// fixedWidth measures ASCII as 10px, 'W' as 50px and everything else as 20px.
func fixedWidth(text string) int {
	total := 0
	for _, r := range text {
		switch {
		case r == 'W':
			total += 50
		case r < utf8.RuneSelf:
			total += 10
		default:
			total += 20
		}
	}
	return total
}

func texts(lines []Line) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Text)
	}
	return out
}

func TestParagraphDropsBlankLines(t *testing.T) {
	got := Paragraph("\n  爆涨科技股 \r\n\n\t\n引爆新能源板块\n\n")
	want := []string{"爆涨科技股", "引爆新能源板块"}
	if !slices.Equal(got, want) {
		t.Fatalf("Paragraph = %q, want %q", got, want)
	}
}

func TestLinesKeepsSourceLinesWhole(t *testing.T) {
	lines := Collect(Lines("爆涨科技股\n\n引爆新能源板块", fixedWidth, 1000))
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), texts(lines))
	}
	if lines[0].Text != "爆涨科技股" || lines[0].Source != 0 {
		t.Fatalf("line 0 = %+v", lines[0])
	}
	if lines[1].Text != "引爆新能源板块" || lines[1].Source != 1 {
		t.Fatalf("line 1 = %+v", lines[1])
	}
	if lines[1].Width != 140 {
		t.Fatalf("line 1 width = %d, want 140", lines[1].Width)
	}
}

func TestWrapSplitsLongLine(t *testing.T) {
	lines := Collect(Wrap("引爆新能源板块", fixedWidth, 50))
	want := []string{"引爆", "新能", "源板", "块"}
	if got := texts(lines); !slices.Equal(got, want) {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
	for _, line := range lines {
		if line.Width > 50 {
			t.Fatalf("line %q width %d exceeds 50", line.Text, line.Width)
		}
		if line.Width != fixedWidth(line.Text) {
			t.Fatalf("line %q width %d, measured %d", line.Text, line.Width, fixedWidth(line.Text))
		}
	}
}

func TestWrapOversizedCharacterStandsAlone(t *testing.T) {
	lines := Collect(Wrap("aWb", fixedWidth, 30))
	want := []string{"a", "W", "b"}
	if got := texts(lines); !slices.Equal(got, want) {
		t.Fatalf("Wrap = %q, want %q", got, want)
	}
	if lines[1].Width != 50 {
		t.Fatalf("oversized line width = %d, want 50", lines[1].Width)
	}
}

func TestLinesGreedyBound(t *testing.T) {
	inputs := []string{
		"爆涨科技股引爆新能源板块投资有风险入市需谨慎",
		"abc defWghi jkl 新能源 W W W",
		"第一行\n第二行很长很长很长很长很长\n\nthird line",
	}
	for _, input := range inputs {
		for _, maxWidth := range []int{15, 30, 45, 60, 100, 250} {
			lines := Collect(Lines(input, fixedWidth, maxWidth))
			source := Paragraph(input)
			for i, line := range lines {
				if line.Width > maxWidth && utf8.RuneCountInString(line.Text) != 1 {
					t.Fatalf("%q @%d: line %q width %d exceeds bound", input, maxWidth, line.Text, line.Width)
				}
				if i+1 < len(lines) && lines[i+1].Source == line.Source {
					next, _ := utf8.DecodeRuneInString(lines[i+1].Text)
					if line.Width+fixedWidth(string(next)) <= maxWidth {
						t.Fatalf("%q @%d: line %q could have taken %q", input, maxWidth, line.Text, string(next))
					}
				}
			}
			rebuilt := make([]string, len(source))
			for _, line := range lines {
				rebuilt[line.Source] += line.Text
			}
			if !slices.Equal(rebuilt, source) {
				t.Fatalf("%q @%d: rebuilt %q, want %q", input, maxWidth, rebuilt, source)
			}
		}
	}
}

func TestLinesNeverMergeSourceLines(t *testing.T) {
	for _, line := range Collect(Lines("ab\ncd", fixedWidth, 1000)) {
		if strings.Contains(line.Text, "bc") {
			t.Fatalf("line %q spans two source lines", line.Text)
		}
	}
}

func TestLinesIsRestartable(t *testing.T) {
	seq := Lines("引爆新能源板块\nhello world", fixedWidth, 45)
	first := Collect(seq)
	second := Collect(seq)
	if !slices.Equal(first, second) {
		t.Fatalf("second pass %v differs from first %v", second, first)
	}
}

func TestLinesStopsEarly(t *testing.T) {
	count := 0
	for range Lines("aaaa\nbbbb\ncccc", fixedWidth, 20) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
}

func TestLinesCachesCharacterWidths(t *testing.T) {
	calls := 0
	measure := func(text string) int {
		calls++
		return fixedWidth(text)
	}
	Collect(Lines("aaaa\naaab", measure, 25))
	if calls != 2 {
		t.Fatalf("measure called %d times, want 2", calls)
	}
}

func TestWrapWithoutLimit(t *testing.T) {
	lines := Collect(Wrap("引爆新能源板块", fixedWidth, 0))
	if len(lines) != 1 || lines[0].Width != 140 {
		t.Fatalf("Wrap without limit = %+v", lines)
	}
	if got := Collect(Wrap("", fixedWidth, 10)); len(got) != 0 {
		t.Fatalf("Wrap of empty line = %+v", got)
	}
}
