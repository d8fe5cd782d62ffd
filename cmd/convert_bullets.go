package cmd

import (
	"fmt"

	"github.com/itsmostafa/chapterfix/internal/bullets"
	"github.com/itsmostafa/chapterfix/internal/document"
	"github.com/spf13/cobra"
)

var convertBulletsCmd = &cobra.Command{
	Use:   "convert-bullets [files...]",
	Short: "Turn unicode bullet glyphs into Markdown list items",
	Long:  `Replace the ●, ○ and ■ glyphs left by PDF conversion with nested "-" items.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return transformFiles(cmd, args, func(doc *document.Document) (string, error) {
			lines, n := bullets.ConvertUnicode(doc.Lines)
			doc.Lines = lines
			return fmt.Sprintf("converted %d bullets", n), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(convertBulletsCmd)
}
