// Package escaper encodes untrusted values for the output context they are
// written into: HTML body text, HTML attribute values, CSS, JavaScript and URLs.
//
// Every method accepts any value; nil becomes the empty string, so templates
// can pass optional fields straight through.
package escaper

import (
	"fmt"
	"strings"
	"text/template"
	"unicode/utf16"
	"unicode/utf8"
)

var supportedEncodings = map[string]bool{
	"utf-8": true,
	"utf8":  true,
}

var htmlNamedEntities = map[rune]string{
	'"': "quot",
	'&': "amp",
	'<': "lt",
	'>': "gt",
}

// Escaper escapes strings for a single output encoding.
type Escaper struct {
	encoding string
}

// New returns an escaper for the given encoding. Only UTF-8 is supported;
// an empty encoding means UTF-8.
func New(encoding string) (*Escaper, error) {
	enc := strings.ToLower(strings.TrimSpace(encoding))
	if enc == "" {
		enc = "utf-8"
	}
	if !supportedEncodings[enc] {
		return nil, fmt.Errorf("escaper: unsupported encoding %q", encoding)
	}
	return &Escaper{encoding: "utf-8"}, nil
}

// Encoding reports the output encoding.
func (e *Escaper) Encoding() string {
	return e.encoding
}

// EscapeHTML escapes text placed between HTML tags.
func (e *Escaper) EscapeHTML(v any) string {
	s := toString(v)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EscapeHTMLAttr escapes a value for an HTML attribute, quoted or not.
func (e *Escaper) EscapeHTMLAttr(v any) string {
	s := toString(v)
	if s == "" || isDigits(s) {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if isAlnum(r) || r == ',' || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		if isUndefinedInHTML(r) {
			b.WriteString("&#xFFFD;")
			continue
		}
		if name, ok := htmlNamedEntities[r]; ok {
			b.WriteString("&" + name + ";")
			continue
		}
		if r > 0xFF {
			fmt.Fprintf(&b, "&#x%04X;", r)
		} else {
			fmt.Fprintf(&b, "&#x%02X;", r)
		}
	}
	return b.String()
}

// EscapeJS escapes a value for a JavaScript string literal.
func (e *Escaper) EscapeJS(v any) string {
	s := toString(v)
	if s == "" || isDigits(s) {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if isAlnum(r) || r == ',' || r == '.' || r == '_' {
			b.WriteRune(r)
			continue
		}
		if r < utf8.RuneSelf {
			fmt.Fprintf(&b, "\\x%02X", r)
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			fmt.Fprintf(&b, "\\u%04X\\u%04X", r1, r2)
			continue
		}
		fmt.Fprintf(&b, "\\u%04X", r)
	}
	return b.String()
}

// EscapeCSS escapes a value for a CSS string or identifier. Each escaped
// character is terminated by a space so following hex digits are not absorbed.
func (e *Escaper) EscapeCSS(v any) string {
	s := toString(v)
	if s == "" || isDigits(s) {
		return s
	}

	var b strings.Builder
	for _, r := range s {
		if isAlnum(r) {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "\\%X ", r)
	}
	return b.String()
}

// EscapeURL percent-encodes a value for use as a URL path segment or query
// parameter. Only unreserved characters (RFC 3986) pass through.
func (e *Escaper) EscapeURL(v any) string {
	s := toString(v)

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAlnum(rune(c)) || c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// FuncMap exposes the escaper to text/template as escapeHtml, escapeHtmlAttr,
// escapeJs, escapeCss and escapeUrl.
func (e *Escaper) FuncMap() template.FuncMap {
	return template.FuncMap{
		"escapeHtml":     e.EscapeHTML,
		"escapeHtmlAttr": e.EscapeHTMLAttr,
		"escapeJs":       e.EscapeJS,
		"escapeCss":      e.EscapeCSS,
		"escapeUrl":      e.EscapeURL,
	}
}

// toString converts a template value to text. Invalid UTF-8 is replaced with U+FFFD.
func toString(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case *string:
		if t == nil {
			return ""
		}
		s = *t
	case []byte:
		s = string(t)
	case fmt.Stringer:
		s = t.String()
	case error:
		s = t.Error()
	default:
		s = fmt.Sprint(t)
	}
	return strings.ToValidUTF8(s, "\uFFFD")
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isUndefinedInHTML reports control characters that have no HTML representation.
func isUndefinedInHTML(r rune) bool {
	return (r <= 0x1F && r != '\t' && r != '\n' && r != '\r') || (r >= 0x7F && r <= 0x9F)
}
