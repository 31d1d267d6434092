package render

import (
	"bytes"
	"fmt"
	"html"
	"regexp"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer renders fenced code blocks with chroma CSS classes and a
// copy button that refers to the block's index in ExtractCodeBlocks order.
type codeBlockRenderer struct {
	formatter *chromahtml.Formatter
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	language := string(n.Language(source))
	code := blockText(n, source)
	index := fencedIndex(n)

	fmt.Fprintf(w, `<div class="code-block" data-code-index="%d" data-language="%s">`, index, html.EscapeString(language))
	fmt.Fprintf(w, `<button type="button" class="copy-code" data-code-index="%d">Copy code</button>`, index)

	iterator, err := lexerFor(language, code).Tokenise(nil, code)
	if err != nil || r.formatter.Format(w, chromaStyles.Fallback, iterator) != nil {
		_, _ = w.WriteString(`<pre><code>` + html.EscapeString(code) + `</code></pre>`)
	}

	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

// fencedIndex returns the position of n among the fenced blocks of its document.
func fencedIndex(n ast.Node) int {
	root := n
	for root.Parent() != nil {
		root = root.Parent()
	}
	index, found := 0, false
	_ = ast.Walk(root, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || found {
			return ast.WalkContinue, nil
		}
		if _, ok := c.(*ast.FencedCodeBlock); ok {
			if c == n {
				found = true
				return ast.WalkStop, nil
			}
			index++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return index
}

var htmlMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&codeBlockRenderer{formatter: chromahtml.New(chromahtml.WithClasses(true))}, 100),
		),
	),
)

var classPattern = regexp.MustCompile(`^[A-Za-z0-9_ -]+$`)

// assistantPolicy allows GFM output plus the highlighting classes and copy
// buttons; scripts, event handlers and javascript: URLs are removed.
func assistantPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).OnElements("div", "pre", "code", "span", "button")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^button$`)).OnElements("button")
	p.AllowElements("button")
	p.AllowDataAttributes()
	p.AllowAttrs("checked", "disabled").OnElements("input")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	return p
}

var sanitizer = assistantPolicy()

// AssistantHTML converts assistant markdown to sanitized HTML.
func AssistantHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlMarkdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// UserHTML returns user text as fully escaped HTML. Markdown is not interpreted.
func UserHTML(text string) string {
	return `<p class="user-text">` + html.EscapeString(text) + `</p>`
}
