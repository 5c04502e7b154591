// Package markdown converts document HTML into normalized Markdown.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

// Tags removed wholesale before conversion. They carry navigation chrome and
// code, never chapter prose.
const skipSelector = "script, style, nav, header, footer"

var blankRunsRe = regexp.MustCompile(`\n{3,}`)

// Converter turns HTML fragments into Markdown, stripping non-content
// elements first. Safe to reuse across documents.
type Converter struct {
	conv *converter.Converter
}

func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Convert renders HTML as Markdown. Script/style/navigation elements are
// dropped and runs of three or more newlines collapse to one blank line.
func (c *Converter) Convert(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find(skipSelector).Remove()

	cleaned, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}

	md, err := c.conv.ConvertString(cleaned)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return Collapse(md), nil
}

// Collapse squeezes runs of 3+ newlines down to a single blank line and trims
// surrounding whitespace.
func Collapse(md string) string {
	return strings.TrimSpace(blankRunsRe.ReplaceAllString(md, "\n\n"))
}
