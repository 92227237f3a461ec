package parser

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// StripMarkdown flattens markdown into the plain line layout the parsers
// expect. Headings become "Title:" lines, list items keep a "1. " or "- "
// marker and emphasis, links and code spans are reduced to their text.
func StripMarkdown(content string) string {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	writeBlocks(&sb, doc, source)
	return strings.TrimSpace(sb.String())
}

func writeBlocks(sb *strings.Builder, parent ast.Node, source []byte) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		writeBlock(sb, node, source)
	}
}

func writeBlock(sb *strings.Builder, node ast.Node, source []byte) {
	switch n := node.(type) {
	case *ast.Heading:
		heading := strings.TrimSpace(inlineText(n, source))
		if heading == "" {
			return
		}
		if !strings.HasSuffix(heading, ":") {
			heading += ":"
		}
		sb.WriteString(heading + "\n")
	case *ast.Paragraph, *ast.TextBlock:
		sb.WriteString(strings.TrimRight(inlineText(n, source), "\n") + "\n")
	case *ast.List:
		number := n.Start
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if n.IsOrdered() {
				sb.WriteString(strconv.Itoa(number) + ". ")
				number++
			} else {
				sb.WriteString("- ")
			}
			writeBlocks(sb, item, source)
			if !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString("\n")
			}
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			sb.Write(segment.Value(source))
		}
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return
	default:
		writeBlocks(sb, n, source)
	}
}

func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	var walk func(ast.Node)
	walk = func(parent ast.Node) {
		for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				sb.Write(c.Segment.Value(source))
				if c.SoftLineBreak() || c.HardLineBreak() {
					sb.WriteString("\n")
				}
			case *ast.String:
				sb.Write(c.Value)
			case *ast.AutoLink:
				sb.Write(c.Label(source))
			case *ast.RawHTML:
				continue
			default:
				walk(c)
			}
		}
	}
	walk(node)
	return sb.String()
}
