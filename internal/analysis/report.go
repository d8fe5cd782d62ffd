package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/itsmostafa/chapterfix/internal/cluster"
)

// Coherence thresholds used by the report.
const (
	goodAverage       = 0.75
	moderateAverage   = 0.65
	lowCoherence      = 0.70
	largeCluster      = 10
	smallCluster      = 3
	maxListedOutliers = 10
)

// Rating labels a single cluster's coherence.
func Rating(coherence float64) string {
	switch {
	case coherence >= 0.80:
		return "EXCELLENT"
	case coherence >= 0.70:
		return "GOOD"
	case coherence >= 0.60:
		return "MODERATE"
	}
	return "WEAK"
}

// OverallStatus labels the average coherence of a document.
func OverallStatus(avg float64) string {
	switch {
	case avg >= goodAverage:
		return "GOOD"
	case avg >= moderateAverage:
		return "MODERATE"
	}
	return "NEEDS IMPROVEMENT"
}

// Report renders the coherence analysis as Markdown.
func (c *Coherence) Report(now time.Time) string {
	var b strings.Builder
	b.WriteString("# Semantic Coherence Analysis Report\n\n")
	fmt.Fprintf(&b, "**Generated**: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Source**: %s\n\n---\n\n", c.SourceMarkdown)

	c.writeSummary(&b)
	b.WriteString("\n---\n\n")
	c.writeClusters(&b)
	b.WriteString("---\n\n")
	c.writeRecommendations(&b)
	b.WriteString("---\n\n")
	c.writeAppendix(&b)
	return b.String()
}

func (c *Coherence) lowCoherenceClusters() []cluster.Cluster {
	var out []cluster.Cluster
	for _, cl := range c.Clusters {
		if cl.Coherence < lowCoherence {
			out = append(out, cl)
		}
	}
	return out
}

func (c *Coherence) writeSummary(b *strings.Builder) {
	avg := c.AverageCoherence()
	outliers := c.TotalOutliers()

	b.WriteString("## Executive Summary\n\n")
	fmt.Fprintf(b, "- **Total Sections Analyzed**: %d\n", c.TotalSections)
	fmt.Fprintf(b, "- **Clusters Identified**: %d\n", c.NumClusters)
	fmt.Fprintf(b, "- **Average Cluster Coherence**: %.3f\n", avg)
	fmt.Fprintf(b, "- **Total Outlier Sections**: %d\n\n", outliers)
	b.WriteString("### Key Findings\n\n")

	switch OverallStatus(avg) {
	case "GOOD":
		b.WriteString("- **Overall Coherence**: GOOD - Content is well-organized with clear thematic groupings\n")
	case "MODERATE":
		b.WriteString("- **Overall Coherence**: MODERATE - Some organizational improvements possible\n")
	default:
		b.WriteString("- **Overall Coherence**: NEEDS IMPROVEMENT - Significant reorganization recommended\n")
	}
	if low := c.lowCoherenceClusters(); len(low) > 0 {
		fmt.Fprintf(b, "- **Low Coherence Clusters**: %d cluster(s) show weak thematic unity\n", len(low))
	}
	if outliers > 0 {
		fmt.Fprintf(b, "- **Outlier Sections**: %d section(s) weakly connected to their clusters\n", outliers)
	}
}

func (c *Coherence) writeClusters(b *strings.Builder) {
	b.WriteString("## Cluster Analysis\n\n")
	for _, cl := range c.Clusters {
		fmt.Fprintf(b, "### Cluster %d: %s\n\n", cl.ID, cl.Theme)
		fmt.Fprintf(b, "- **Size**: %d sections\n", cl.Size)
		fmt.Fprintf(b, "- **Coherence**: %.3f (%s)\n", cl.Coherence, Rating(cl.Coherence))
		if len(cl.Outliers) > 0 {
			fmt.Fprintf(b, "- **Outliers**: %d section(s)\n", len(cl.Outliers))
		}

		b.WriteString("\n**Sections in this cluster:**\n\n")
		for _, s := range cl.Sections {
			fmt.Fprintf(b, "- `%s` (Level %d): **%s**\n", s.SectionID, s.Level, s.Heading)
			if len(s.ContentType) > 0 {
				fmt.Fprintf(b, "  - Content type: %s\n", strings.Join(s.ContentType, ", "))
			}
			if len(s.Audience) > 0 {
				fmt.Fprintf(b, "  - Age groups: %s\n", strings.Join(s.Audience, ", "))
			}
		}

		if len(cl.Outliers) > 0 {
			b.WriteString("\n**Outlier sections** (weakly connected to cluster theme):\n\n")
			for _, o := range cl.Outliers {
				fmt.Fprintf(b, "- `%s`: %s (similarity: %.3f)\n", o.SectionID, o.Heading, o.Similarity)
			}
		}
		b.WriteString("\n---\n\n")
	}
}

func (c *Coherence) writeRecommendations(b *strings.Builder) {
	b.WriteString("## Recommendations\n\n")

	if low := c.lowCoherenceClusters(); len(low) > 0 {
		b.WriteString("### 1. Address Low-Coherence Clusters\n\n")
		b.WriteString("The following clusters show weak thematic unity and may benefit from reorganization:\n\n")
		for _, cl := range low {
			fmt.Fprintf(b, "**Cluster %d: %s** (coherence: %.3f)\n\n", cl.ID, cl.Theme, cl.Coherence)
			b.WriteString("Recommendations:\n")
			b.WriteString("- Review sections for thematic consistency\n")
			b.WriteString("- Consider splitting into multiple focused subsections\n")
			b.WriteString("- Add clearer transitions between topics\n\n")
		}
	}

	type placed struct {
		cluster.Outlier
		theme string
	}
	var outliers []placed
	for _, cl := range c.Clusters {
		for _, o := range cl.Outliers {
			outliers = append(outliers, placed{o, cl.Theme})
		}
	}
	if len(outliers) > 0 {
		b.WriteString("### 2. Review Outlier Sections\n\n")
		b.WriteString("These sections are weakly connected to their cluster themes:\n\n")
		for i, o := range outliers {
			if i == maxListedOutliers {
				break
			}
			fmt.Fprintf(b, "- `%s`: **%s**\n", o.SectionID, o.Heading)
			fmt.Fprintf(b, "  - Currently in cluster: %s\n", o.theme)
			b.WriteString("  - **Action**: Review placement, may belong elsewhere or need content clarification\n\n")
		}
		if len(outliers) > maxListedOutliers {
			fmt.Fprintf(b, "*...and %d more outliers*\n\n", len(outliers)-maxListedOutliers)
		}
	}

	b.WriteString("### 3. Structural Improvements\n\n")
	var large, small []cluster.Cluster
	for _, cl := range c.Clusters {
		if cl.Size > largeCluster {
			large = append(large, cl)
		}
		if cl.Size < smallCluster {
			small = append(small, cl)
		}
	}
	if len(large) > 0 {
		b.WriteString("**Large Clusters**:\n\n")
		for _, cl := range large {
			fmt.Fprintf(b, "- Cluster %d (%s) has %d sections\n", cl.ID, cl.Theme, cl.Size)
			b.WriteString("  - Consider breaking into smaller, more focused subsections\n\n")
		}
	}
	if len(small) > 0 {
		b.WriteString("**Small Clusters**:\n\n")
		for _, cl := range small {
			fmt.Fprintf(b, "- Cluster %d (%s) has only %d section(s)\n", cl.ID, cl.Theme, cl.Size)
			b.WriteString("  - Consider merging with related clusters\n\n")
		}
	}

	b.WriteString("### 4. General Recommendations\n\n")
	b.WriteString("1. **Improve Transitions**: Add bridging content between major sections\n")
	b.WriteString("2. **Consistent Structure**: Ensure parallel structure across similar section types\n")
	b.WriteString("3. **Clear Headings**: Review headings to ensure they accurately reflect content\n")
	b.WriteString("4. **Content Completeness**: Address any orphaned or incomplete sections\n\n")
}

func (c *Coherence) writeAppendix(b *strings.Builder) {
	b.WriteString("## Appendix: Analysis Metadata\n\n")
	fmt.Fprintf(b, "- **Source Markdown**: %s\n", c.SourceMarkdown)
	fmt.Fprintf(b, "- **Embedding Method**: %s\n", c.EmbeddingMethod)
	fmt.Fprintf(b, "- **Embedding Dimensions**: %d\n", c.EmbeddingDim)
	fmt.Fprintf(b, "- **Number of Clusters**: %d\n", c.NumClusters)
	fmt.Fprintf(b, "- **Total Sections**: %d\n\n", c.TotalSections)

	b.WriteString("### Cluster Statistics\n\n")
	b.WriteString("| Cluster | Theme | Size | Coherence | Outliers |\n")
	b.WriteString("|---------|-------|------|-----------|----------|\n")
	for _, cl := range c.Clusters {
		theme := cl.Theme
		if r := []rune(theme); len(r) > 30 {
			theme = string(r[:30])
		}
		fmt.Fprintf(b, "| %d | %s | %d | %.3f | %d |\n", cl.ID, theme, cl.Size, cl.Coherence, len(cl.Outliers))
	}
	b.WriteString("\n")
}
