// Package content splits documents into fingerprinted blocks and finds
// blocks of a source document that are missing from a target document.
package content

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/itsmostafa/chapterfix/internal/mdline"
)

// BlockType tags a Block.
type BlockType string

const (
	TypeSection   BlockType = "section"
	TypeParagraph BlockType = "paragraph"
	TypeList      BlockType = "list"
	TypeOther     BlockType = "other"
)

const (
	previewLen = 50
	hashLen    = 8
)

// Block is a header line or a run of non-blank, non-header lines.
type Block struct {
	Type        BlockType `json:"type"`
	Start       int       `json:"start_line"` // 0-based, inclusive
	End         int       `json:"end_line"`   // 0-based, inclusive
	Content     string    `json:"content"`
	Section     string    `json:"section,omitempty"` // number of the enclosing header
	Fingerprint string    `json:"fingerprint"`
}

// Matches reports whether two blocks carry the same content.
func (b Block) Matches(other Block) bool {
	return b.Fingerprint == other.Fingerprint
}

// Normalize collapses whitespace runs to single spaces and lowercases.
func Normalize(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Fingerprint returns the first 50 characters of the normalized text, a
// "|" separator and the first 8 hex digits of its MD5 hash.
func Fingerprint(text string) string {
	norm := Normalize(text)
	sum := md5.Sum([]byte(norm))

	preview := []rune(norm)
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return string(preview) + "|" + hex.EncodeToString(sum[:])[:hashLen]
}

// ParseBlocks partitions lines into blocks. Every header is a block of its
// own and closes the open block; blank lines close the open block.
func ParseBlocks(lines []string) []Block {
	var (
		blocks  []Block
		current []string
		start   int
		section string
	)

	flush := func(end int) {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n")
		blocks = append(blocks, Block{
			Type:        classify(current),
			Start:       start,
			End:         end,
			Content:     text,
			Section:     section,
			Fingerprint: Fingerprint(text),
		})
		current = nil
	}

	for i, line := range lines {
		switch {
		case mdline.IsHeader(line):
			flush(i - 1)
			number, _, _ := mdline.SplitNumber(mdline.HeaderText(line))
			section = number
			text := strings.TrimSpace(line)
			blocks = append(blocks, Block{
				Type:        TypeSection,
				Start:       i,
				End:         i,
				Content:     text,
				Section:     number,
				Fingerprint: Fingerprint(text),
			})
			start = i + 1
		case mdline.IsBlank(line):
			flush(i - 1)
			start = i + 1
		default:
			if len(current) == 0 {
				start = i
			}
			current = append(current, line)
		}
	}
	flush(len(lines) - 1)

	return blocks
}

func classify(lines []string) BlockType {
	first := strings.TrimSpace(lines[0])
	switch {
	case mdline.IsListItem(first):
		return TypeList
	case mdline.IsCodeFence(first), strings.HasPrefix(first, "|"):
		return TypeOther
	default:
		return TypeParagraph
	}
}

// Fingerprints returns the set of fingerprints in blocks.
func Fingerprints(blocks []Block) map[string]bool {
	set := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		set[b.Fingerprint] = true
	}
	return set
}

// FindMissing returns the source blocks whose fingerprint is absent from
// target, along with the target fingerprint set.
func FindMissing(source, target []Block) ([]Block, map[string]bool) {
	targetSet := Fingerprints(target)
	var missing []Block
	for _, b := range source {
		if !targetSet[b.Fingerprint] {
			missing = append(missing, b)
		}
	}
	return missing, targetSet
}

// MergeSourceBlocks concatenates block lists and drops repeated
// fingerprints. The first occurrence wins, so argument order matters.
func MergeSourceBlocks(parts ...[]Block) []Block {
	seen := make(map[string]bool)
	var merged []Block
	for _, part := range parts {
		for _, b := range part {
			if seen[b.Fingerprint] {
				continue
			}
			seen[b.Fingerprint] = true
			merged = append(merged, b)
		}
	}
	return merged
}
