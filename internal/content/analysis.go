package content

import (
	"fmt"
	"strings"
)

// RestoredHeading titles the section Restore appends.
const RestoredHeading = "## Restored Content"

// Part is one named source document.
type Part struct {
	Name  string
	Lines []string
}

// PartSummary counts the blocks of one source part.
type PartSummary struct {
	Name   string `json:"name"`
	Blocks int    `json:"blocks"`
}

// Analysis compares the merged source parts against a target document.
type Analysis struct {
	Title        string        `json:"title"`
	Parts        []PartSummary `json:"parts"`
	SourceBlocks int           `json:"source_blocks"` // unique across parts
	TargetBlocks int           `json:"target_blocks"`
	Missing      []Block       `json:"missing"`
}

// Complete reports whether every source block is present in the target.
func (a *Analysis) Complete() bool {
	return len(a.Missing) == 0
}

// Analyze parses every part, merges them first-seen-wins in order and
// reports which merged blocks the target lacks.
func Analyze(title string, parts []Part, target []string) *Analysis {
	a := &Analysis{Title: title}

	lists := make([][]Block, 0, len(parts))
	for _, p := range parts {
		blocks := ParseBlocks(p.Lines)
		lists = append(lists, blocks)
		a.Parts = append(a.Parts, PartSummary{Name: p.Name, Blocks: len(blocks)})
	}
	merged := MergeSourceBlocks(lists...)
	targetBlocks := ParseBlocks(target)

	a.SourceBlocks = len(merged)
	a.TargetBlocks = len(targetBlocks)
	a.Missing, _ = FindMissing(merged, targetBlocks)
	return a
}

// Restore appends missing blocks to target under a restored-content
// heading. Placement is left for manual review.
func Restore(target []string, missing []Block) []string {
	out := make([]string, len(target), len(target)+len(missing)*2+6)
	copy(out, target)
	if len(missing) == 0 {
		return out
	}

	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	out = append(out,
		"",
		"---",
		"",
		RestoredHeading,
		"",
		"*The following content was present in the source documents but missing from this file.*",
	)
	for _, b := range missing {
		out = append(out, "")
		out = append(out, strings.Split(b.Content, "\n")...)
	}
	return append(out, "")
}

// Report renders the analysis as Markdown.
func (a *Analysis) Report() string {
	var b strings.Builder

	title := a.Title
	if title == "" {
		title = "Content Analysis"
	}
	fmt.Fprintf(&b, "# %s\n", title)
	b.WriteString("\n## Source Analysis\n\n")
	total := 0
	for _, p := range a.Parts {
		fmt.Fprintf(&b, "- **%s Blocks**: %d\n", p.Name, p.Blocks)
		total += p.Blocks
	}
	fmt.Fprintf(&b, "- **Total Source Blocks**: %d\n", total)
	fmt.Fprintf(&b, "- **Unique Source Blocks**: %d\n", a.SourceBlocks)
	fmt.Fprintf(&b, "\n- **Current Merged Blocks**: %d\n", a.TargetBlocks)
	fmt.Fprintf(&b, "\n- **Missing Blocks**: %d\n", len(a.Missing))

	if a.Complete() {
		b.WriteString("\n**Status**: ✓ COMPLETE - All source content present in merged file\n")
	} else {
		fmt.Fprintf(&b, "\n**Status**: ⚠ INCOMPLETE - %d blocks missing from merged file\n", len(a.Missing))
		b.WriteString("\n## Missing Content Details\n")
		for i, m := range a.Missing {
			section := m.Section
			if section == "" {
				section = "N/A"
			}
			fmt.Fprintf(&b, "\n### Missing Block %d\n", i+1)
			fmt.Fprintf(&b, "- **Type**: %s\n", m.Type)
			fmt.Fprintf(&b, "- **Lines**: %d-%d\n", m.Start+1, m.End+1)
			fmt.Fprintf(&b, "- **Section**: %s\n", section)
			fmt.Fprintf(&b, "- **Preview**: %s...\n", preview(m.Content, 100))
		}
	}

	b.WriteString("\n## Recommendations\n\n")
	if a.Complete() {
		b.WriteString("- No action needed - merged file is complete\n")
	} else {
		b.WriteString("- Run `chapterfix restore` to append the missing content\n")
		b.WriteString("- Review restored content to ensure proper placement\n")
	}
	return b.String()
}

func preview(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
