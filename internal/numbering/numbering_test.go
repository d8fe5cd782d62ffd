package numbering

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNumbererSequence(t *testing.T) {
	tests := []struct {
		name   string
		levels []int
		want   []string
	}{
		{
			name:   "nested then sibling",
			levels: []int{1, 2, 3, 2},
			want:   []string{"1", "1.1", "1.1.1", "1.2"},
		},
		{
			name:   "siblings increment",
			levels: []int{1, 2, 2, 2},
			want:   []string{"1", "1.1", "1.2", "1.3"},
		},
		{
			name:   "deeper counters reset",
			levels: []int{1, 2, 3, 3, 1, 2, 3},
			want:   []string{"1", "1.1", "1.1.1", "1.1.2", "2", "2.1", "2.1.1"},
		},
		{
			name:   "skipped level keeps zero gap",
			levels: []int{1, 3},
			want:   []string{"1", "1.0.1"},
		},
		{
			name:   "document starting deep",
			levels: []int{2, 2},
			want:   []string{"0.1", "0.2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNumberer()
			var got []string
			for _, level := range tt.levels {
				num, err := n.ProcessHeader(level)
				if err != nil {
					t.Fatalf("ProcessHeader(%d) error: %v", level, err)
				}
				got = append(got, num)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("numbers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNumbererPartCountMatchesLevel(t *testing.T) {
	n := NewNumberer()
	for _, level := range []int{1, 2, 3, 4, 5, 6, 6, 3, 1} {
		num, err := n.ProcessHeader(level)
		if err != nil {
			t.Fatalf("ProcessHeader(%d) error: %v", level, err)
		}
		if parts := len(strings.Split(num, ".")); parts != level {
			t.Errorf("ProcessHeader(%d) = %q has %d parts", level, num, parts)
		}
	}
}

func TestNumbererResetIsDeterministic(t *testing.T) {
	levels := []int{1, 2, 2, 3, 1, 2, 4}
	run := func(n *Numberer) []string {
		var out []string
		for _, l := range levels {
			num, _ := n.ProcessHeader(l)
			out = append(out, num)
		}
		return out
	}

	n := NewNumberer()
	first := run(n)
	n.Reset()
	if n.Current() != "" {
		t.Errorf("Current() after Reset = %q, want empty", n.Current())
	}
	second := run(n)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("replay after Reset = %v, want %v", second, first)
	}
}

func TestNumbererInvalidLevel(t *testing.T) {
	n := NewNumberer()
	for _, level := range []int{0, 7, -1} {
		_, err := n.ProcessHeader(level)
		var invalid *InvalidLevelError
		if !errors.As(err, &invalid) {
			t.Fatalf("ProcessHeader(%d) error = %v, want InvalidLevelError", level, err)
		}
		if invalid.Level != level {
			t.Errorf("InvalidLevelError.Level = %d, want %d", invalid.Level, level)
		}
	}
}

func TestRenumber(t *testing.T) {
	lines := []string{
		"# 1 A",
		"text",
		"## 1 B",
		"### 1 C",
		"## 2 D",
	}
	res, err := Renumber(lines)
	if err != nil {
		t.Fatalf("Renumber() error: %v", err)
	}

	want := []string{
		"# 1 A",
		"text",
		"## 1.1 B",
		"### 1.1.1 C",
		"## 1.2 D",
	}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Errorf("Renumber() lines = %q, want %q", res.Lines, want)
	}
	if res.Headers != 4 {
		t.Errorf("Headers = %d, want 4", res.Headers)
	}
	if len(res.Changes) != 3 {
		t.Fatalf("len(Changes) = %d, want 3", len(res.Changes))
	}
	c := res.Changes[2]
	if c.OldNumber != "2" || c.NewNumber != "1.2" || c.Title != "D" || c.Line != 4 {
		t.Errorf("last change = %+v", c)
	}
	if lines[2] != "## 1 B" {
		t.Error("Renumber modified its input")
	}
}

func TestRenumberSkipsFencedCode(t *testing.T) {
	lines := []string{
		"# Intro",
		"```bash",
		"# install deps",
		"```",
		"## Usage",
	}
	res, err := Renumber(lines)
	if err != nil {
		t.Fatalf("Renumber() error: %v", err)
	}
	if res.Lines[2] != "# install deps" {
		t.Errorf("fenced line rewritten to %q", res.Lines[2])
	}
	if res.Lines[4] != "## 1.1 Usage" {
		t.Errorf("Lines[4] = %q, want %q", res.Lines[4], "## 1.1 Usage")
	}
}

func TestRenumberIsIdempotent(t *testing.T) {
	lines := []string{"# Guide", "## Setup", "### Step", "## Use"}
	first, err := Renumber(lines)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Renumber(first.Lines)
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Changes) != 0 {
		t.Errorf("second pass changes = %+v, want none", second.Changes)
	}
}

func TestPreview(t *testing.T) {
	changes, err := Preview([]string{"# Title", "## 1.1 Already"})
	if err != nil {
		t.Fatal(err)
	}
	if len(changes) != 1 || changes[0].NewLine != "# 1 Title" {
		t.Errorf("Preview() = %+v", changes)
	}
	if changes[0].Renumbered() != true {
		t.Error("expected unnumbered header to count as renumbered")
	}
}

func TestFlattenHeadings(t *testing.T) {
	lines := []string{"# A", "##### Deep", "###### Deeper", "#### Ok"}
	got, changed := FlattenHeadings(lines, 4)
	want := []string{"# A", "#### Deep", "#### Deeper", "#### Ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FlattenHeadings() = %q, want %q", got, want)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
}
