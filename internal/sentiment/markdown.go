package sentiment

import (
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// RemoveLinks reduces markdown links to their anchor text and drops bare
// URLs, which carry no sentiment.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

// ConvertMarkdownToText walks the markdown AST and keeps only the literal text,
// so formatting markers never reach the normalizer.
func ConvertMarkdownToText(input string) string {
	root := blackfriday.New(blackfriday.WithNoExtensions()).Parse([]byte(input))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item,
			blackfriday.Softbreak, blackfriday.Hardbreak:
			b.WriteByte(' ')
		}
		return blackfriday.GoToNext
	})

	plainText := strings.Join(strings.Fields(b.String()), " ")

	return RemoveLinks(plainText)
}
