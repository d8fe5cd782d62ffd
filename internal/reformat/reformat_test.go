package reformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemovePageMarkers(t *testing.T) {
	lines := []string{"text", "Manual Page 3 of 40", "Page 4 of XX", "Caregiver Manual v016 footer", "more"}
	out, n := RemovePageMarkers(lines, []string{"Manual v016"})
	assert.Equal(t, []string{"text", "more"}, out)
	assert.Equal(t, 3, n)
}

func TestRemoveDuplicateChapterHeadings(t *testing.T) {
	lines := []string{"CHAPTER 2: CARE", "body", "Chapter 2: Care", "2. CARE ROUTINES", "CHAPTER 3: NEXT"}
	out, n := RemoveDuplicateChapterHeadings(lines, 2)
	assert.Equal(t, []string{"CHAPTER 2: CARE", "body", "CHAPTER 3: NEXT"}, out)
	assert.Equal(t, 2, n)
}

func TestNormalizeHeadings(t *testing.T) {
	lines := []string{"intro", "2.1 Daily Routine", "text", "1. not a heading"}
	out, n := NormalizeHeadings(lines)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"intro", "", "## 2.1 Daily Routine", "", "text", "1. not a heading"}, out)

	deep, _ := NormalizeHeadings([]string{"1.2.3.4.5.6.7 Deep"})
	assert.Equal(t, []string{"###### 1.2.3.4.5.6.7 Deep"}, deep)
}

func TestCleanListSpacing(t *testing.T) {
	lines := []string{"Para", "- a", "", "- b", "after"}
	assert.Equal(t, []string{"Para", "", "- a", "- b", "", "after"}, CleanListSpacing(lines))
}

func TestApplySpacing(t *testing.T) {
	lines := []string{"a  ", "", "", "", "", "b\t", "", ""}
	assert.Equal(t, []string{"a", "", "", "b", ""}, ApplySpacing(lines))
}

func TestChapter(t *testing.T) {
	raw := []string{
		"CHAPTER 2: DAILY CARE",
		"Page 1 of 10",
		"2.1 Meals",
		"Children eat together:",
		"● Breakfast",
		"○ Fruit",
		"CHAPTER 2: DAILY CARE",
		"2.2 Naps",
	}
	out, st := Chapter(raw, Options{Chapter: 2})
	assert.Equal(t, []string{
		"CHAPTER 2: DAILY CARE",
		"",
		"## 2.1 Meals",
		"",
		"Children eat together:",
		"",
		"- Breakfast",
		"  - Fruit",
		"",
		"## 2.2 Naps",
		"",
	}, out)
	assert.Equal(t, 1, st.PageMarkersRemoved)
	assert.Equal(t, 1, st.DuplicateHeadings)
	assert.Equal(t, 2, st.BulletsConverted)
	assert.Equal(t, 2, st.HeadingsNormalized)
	assert.Equal(t, 2, st.Headings)
	assert.Equal(t, 2, st.ListItems)
}
