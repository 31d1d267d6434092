package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is one fenced code block of an assistant reply.
type CodeBlock struct {
	Index    int
	Language string
	// Code is the exact block content without its trailing newline; this is
	// what the copy action places on the clipboard.
	Code string
}

var blockParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// ExtractCodeBlocks returns the fenced code blocks of markdown in document order.
// Indented code blocks and inline code spans are not included.
func ExtractCodeBlocks(markdown string) []CodeBlock {
	source := []byte(markdown)
	doc := blockParser.Parse(text.NewReader(source))

	var blocks []CodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		blocks = append(blocks, CodeBlock{
			Index:    len(blocks),
			Language: string(fenced.Language(source)),
			Code:     blockText(fenced, source),
		})
		return ast.WalkSkipChildren, nil
	})

	return blocks
}

func blockText(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	code := strings.TrimSuffix(sb.String(), "\n")
	return strings.TrimSuffix(code, "\r")
}

func lexerFor(language, code string) chroma.Lexer {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return chroma.Coalesce(lexer)
}

// Highlight returns code with ANSI syntax highlighting for terminal previews.
// On any highlighting failure the code is returned unchanged.
func Highlight(code, language, style string) string {
	chromaStyle := chromaStyles.Get(style)
	if chromaStyle == nil {
		chromaStyle = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexerFor(language, code).Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, chromaStyle, iterator); err != nil {
		return code
	}
	return buf.String()
}
