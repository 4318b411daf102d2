package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions  = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags   = html.CommonFlags
	plainPolicy = bluemonday.NewPolicy()

	markupHints = []string{"**", "__", "~~", "`", "# ", "](", "<"}
)

func init() {
	// Keep only structural tags so html2text can lay out paragraphs and lists.
	plainPolicy.AllowElements("p", "br", "ul", "ol", "li", "blockquote", "pre", "code",
		"h1", "h2", "h3", "h4", "h5", "h6", "b", "strong", "i", "em", "del")
}

// ToPlainText renders markdown or HTML message content to plain text.
// Content without markup is returned unchanged.
func ToPlainText(content string) string {
	if !HasMarkup(content) {
		return content
	}

	// 1. Render HTML (parsers are single-use)
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	rendered := markdown.Render(p.Parse([]byte(content)), renderer)

	// 2. Sanitize tags
	sanitized := plainPolicy.SanitizeBytes(rendered)

	// 3. Flatten to text
	text, err := html2text.FromString(string(sanitized), html2text.Options{OmitLinks: true})
	if err != nil {
		return content
	}

	return strings.TrimSpace(strings.NewReplacer("*", "", "_", "").Replace(text))
}

func HasMarkup(content string) bool {
	for _, hint := range markupHints {
		if strings.Contains(content, hint) {
			return true
		}
	}
	return false
}
