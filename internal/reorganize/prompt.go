package reorganize

import (
	"fmt"
	"strings"
)

const promptHeader = `You are reorganizing a document according to a reorganization plan.

YOUR COMPLETE REORGANIZATION PLAN:
%s

---

COMPLETE ORIGINAL DOCUMENT (extract content from here):
%s

---

TASK:
Generate Section %s: %s

`

// BuildPrompt returns the prompt for one section. Only the first section is
// asked to start with the document title.
func BuildPrompt(plan, original string, s Section, first bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, promptHeader, plan, original, s.Number, s.Title)

	if first {
		fmt.Fprintf(&b, `This is the FIRST section, so:
1. Start with the main chapter/document title
2. Then create the complete section %[1]s with all subsections
3. Extract ALL relevant content from the original document
4. Follow your reorganization plan's structure exactly
5. Use proper hierarchical numbering (%[1]s.1, %[1]s.2, etc.)
6. Include ALL details, examples, and instructions - do NOT summarize
7. Use proper markdown headers (##, ###, ####, etc.)

OUTPUT: Return ONLY the reorganized markdown starting with the main title.`, s.Number)
		return b.String()
	}

	fmt.Fprintf(&b, `Requirements:
1. Extract ALL relevant content from the original document for this section
2. Follow your reorganization plan's structure exactly
3. Use proper hierarchical numbering (%[1]s.1, %[1]s.2, etc.)
4. Include ALL details, examples, and instructions - do NOT summarize
5. Use proper markdown headers (##, ###, ####, etc.)

OUTPUT: Return ONLY the reorganized markdown for section %[1]s. Do NOT include the main title.`, s.Number)
	return b.String()
}
