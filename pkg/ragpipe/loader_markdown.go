package ragpipe

import (
	"fmt"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// MarkdownLoader extracts plain text from markdown files by walking the
// goldmark AST, dropping formatting markers while keeping code block bodies.
type MarkdownLoader struct {
	path string
}

// NewMarkdownLoader creates a markdown loader bound to path.
func NewMarkdownLoader(path string) *MarkdownLoader {
	return &MarkdownLoader{path: path}
}

// Load parses the markdown source and returns its text as a single record.
func (l *MarkdownLoader) Load() ([]Document, error) {
	src, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(gtext.NewReader(src))

	var b strings.Builder
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.FencedCodeBlock:
			if entering {
				writeSegmentLines(&b, node.Lines(), src)
				return ast.WalkSkipChildren, nil
			}
		case *ast.CodeBlock:
			if entering {
				writeSegmentLines(&b, node.Lines(), src)
				return ast.WalkSkipChildren, nil
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				b.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse markdown file: %w", err)
	}

	text := collapseBlankLines(b.String())
	if text == "" {
		return nil, nil
	}
	return []Document{NewDocument(text)}, nil
}

func writeSegmentLines(b *strings.Builder, lines *gtext.Segments, src []byte) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	b.WriteString("\n\n")
}

// collapseBlankLines trims trailing space per line and squeezes runs of
// blank lines down to a single separator.
func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			blank = true
			continue
		}
		if blank && len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
