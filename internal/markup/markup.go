// Package markup converts model output into the restricted HTML subset that
// Telegram renders. The inference provider answers in Markdown with the
// occasional raw HTML tag; Telegram only accepts a small fixed set of inline
// tags, so everything else is unwrapped while its text content is kept.
package markup

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// telegramTags is the allow-list from Telegram's Bot API HTML style docs.
var telegramTags = []string{
	"b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "span", "code", "pre",
}

var (
	// Block-level tags carry no meaning for Telegram; they are turned into
	// newlines before sanitization so paragraph structure survives unwrapping.
	blockTagRE = regexp.MustCompile(`(?i)<br\s*/?>|</?(?:p|div|h[1-6]|ul|ol|blockquote|table|tr)\b[^>]*>|</li>|<li\b[^>]*>`)

	multiNewlineRE = regexp.MustCompile(`\n\s*\n+`)
)

// Converter turns provider output into Telegram-safe HTML.
type Converter struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewTelegramConverter builds a Converter whose sanitization policy keeps
// exactly the tags Telegram renders. Raw HTML passes through the Markdown
// renderer untouched; the bluemonday policy is what guarantees safety.
func NewTelegramConverter() *Converter {
	p := bluemonday.NewPolicy()
	p.AllowElements(telegramTags...)
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "tg")
	p.AllowAttrs("class").OnElements("span")

	return &Converter{
		policy: p,
		markdown: goldmark.New(
			goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
		),
	}
}

// ToTelegramHTML renders Markdown to HTML and strips everything Telegram
// cannot display. It never fails: if Markdown conversion errors, the raw
// text is sanitized directly and degrades to plain text.
func (c *Converter) ToTelegramHTML(raw string) string {
	htmlText := raw
	var buf bytes.Buffer
	if err := c.markdown.Convert([]byte(raw), &buf); err == nil {
		htmlText = buf.String()
	}
	return c.SanitizeHTML(htmlText)
}

// SanitizeHTML reduces arbitrary HTML to the Telegram allow-list. Disallowed
// tags are unwrapped in place, so their text and any nested allowed tags are
// preserved in document order. The result is a fixed point: sanitizing it
// again yields the same output.
func (c *Converter) SanitizeHTML(htmlText string) string {
	htmlText = blockTagRE.ReplaceAllString(htmlText, "\n")
	out := c.policy.Sanitize(htmlText)
	out = multiNewlineRE.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
