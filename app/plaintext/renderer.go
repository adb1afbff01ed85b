package plaintext

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Renderer turns markdown (with optional inline or block HTML) into plain
// text. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	inline parser.Parser
}

func NewRenderer() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		inline: newInlineParser(),
	}
}

// newInlineParser only knows paragraphs, so list markers, quote markers,
// headings and rules in a title stay literal text.
func newInlineParser() parser.Parser {
	inlineParsers := append(parser.DefaultInlineParsers(),
		util.Prioritized(extension.NewStrikethroughParser(), 500),
		util.Prioritized(extension.NewLinkifyParser(), 999),
	)

	return parser.NewParser(
		parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
		parser.WithInlineParsers(inlineParsers...),
	)
}

// PlainText renders s as plain text. Blocks are separated by a blank line,
// whitespace inside a block collapses to single spaces.
func (r *Renderer) PlainText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	source := []byte(s)
	doc := r.md.Parser().Parse(text.NewReader(source))

	return norm.NFC.String(strings.Join(render(doc, source), "\n\n"))
}

// PlainTitle renders s as a single line of inline markup.
func (r *Renderer) PlainTitle(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	source := []byte(s)
	doc := r.inline.Parse(text.NewReader(source))

	return norm.NFC.String(strings.Join(render(doc, source), " "))
}

// render walks doc and returns the text of each block
func render(doc ast.Node, source []byte) []string {
	w := &blockWriter{}
	inCode := 0

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n.Type() == ast.TypeBlock {
			w.flush()
		}

		switch node := n.(type) {
		case *ast.Text:
			if !entering {
				return ast.WalkContinue, nil
			}
			value := node.Segment.Value(source)
			if inCode == 0 {
				value = util.UnescapePunctuations(value)
				w.write(html.UnescapeString(string(value)))
			} else {
				w.write(string(value))
			}
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.write(" ")
			}

		case *ast.String:
			if entering {
				w.write(html.UnescapeString(string(node.Value)))
			}

		case *ast.CodeSpan:
			if entering {
				inCode++
			} else {
				inCode--
			}

		case *ast.AutoLink:
			if entering {
				w.write(string(node.Label(source)))
			}

		case *ast.RawHTML:
			// Tags only; the text they wrap is a sibling Text node.
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			if entering {
				w.write(htmlText(segmentsValue(node.Lines(), source)))
				w.flush()
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if entering {
				w.write(string(segmentsValue(node.Lines(), source)))
			}
		case *ast.FencedCodeBlock:
			if entering {
				w.write(string(segmentsValue(node.Lines(), source)))
			}
		}

		return ast.WalkContinue, nil
	})
	w.flush()

	return w.blocks
}

type blockWriter struct {
	current strings.Builder
	blocks  []string
}

func (w *blockWriter) write(s string) {
	w.current.WriteString(s)
}

func (w *blockWriter) flush() {
	block := strings.Join(strings.Fields(w.current.String()), " ")
	w.current.Reset()
	if block != "" {
		w.blocks = append(w.blocks, block)
	}
}

func segmentsValue(lines *text.Segments, source []byte) []byte {
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		buf.Write(segment.Value(source))
	}
	return buf.Bytes()
}

// htmlText returns the character data of an HTML fragment, skipping script
// and style contents.
func htmlText(fragment []byte) string {
	var sb strings.Builder

	z := html.NewTokenizer(bytes.NewReader(fragment))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return sb.String()
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skip++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skip > 0 {
				skip--
			}
			sb.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	tag := string(name)
	return tag == "script" || tag == "style"
}
