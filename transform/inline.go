package transform

import (
	"fmt"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	lcss "lynxssr/css"
)

// Span locates a single declaration inside inline style text. Offsets are
// byte offsets, value does not include surrounding whitespace and trailing
// "!important".
type Span struct {
	NameStart  int
	NameEnd    int
	ValueStart int
	ValueEnd   int
	Important  bool
}

// name is matched against rule tables byte for byte, "COLOR" is not "color".
func (s Span) name(source string) string {
	return source[s.NameStart:s.NameEnd]
}

func (s Span) value(source string) string {
	return source[s.ValueStart:s.ValueEnd]
}

type lexeme struct {
	tt         css.TokenType
	start, end int
	data       string
}

// ScanDeclarations finds declarations in inline style text. Malformed
// declarations are skipped up to the next top level semicolon.
func ScanDeclarations(source string) []Span {
	var (
		spans  []Span
		offset int
		// current declaration state
		name      = -1
		nameEnd   int
		colon     bool
		depth     int
		value     []lexeme
		malformed bool
	)

	reset := func() {
		name, nameEnd, colon, depth, value, malformed = -1, 0, false, 0, value[:0], false
	}
	finish := func() {
		if !malformed && name >= 0 && colon {
			if span, ok := valueSpan(value); ok {
				span.NameStart, span.NameEnd = name, nameEnd
				spans = append(spans, span)
			}
		}
		reset()
	}

	l := css.NewLexer(parse.NewInputString(source))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			break
		}
		lx := lexeme{tt: tt, start: offset, end: offset + len(data), data: string(data)}
		offset = lx.end

		switch tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken, css.LeftBraceToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				finish()
				continue
			}
		}

		switch {
		case malformed:
		case name < 0:
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
			case css.IdentToken, css.CustomPropertyNameToken:
				name, nameEnd = lx.start, lx.end
			default:
				malformed = true
			}
		case !colon:
			switch tt {
			case css.WhitespaceToken, css.CommentToken:
			case css.ColonToken:
				colon = true
			default:
				malformed = true
			}
		default:
			value = append(value, lx)
		}
	}
	finish()
	return spans
}

// valueSpan trims whitespace and "!important" from value tokens.
func valueSpan(value []lexeme) (Span, bool) {
	significant := func(lx lexeme) bool {
		return lx.tt != css.WhitespaceToken && lx.tt != css.CommentToken
	}

	first, last := 0, len(value)-1
	for first <= last && !significant(value[first]) {
		first++
	}
	for last >= first && !significant(value[last]) {
		last--
	}
	if first > last {
		return Span{}, false
	}

	var important bool
	if value[last].tt == css.IdentToken && strings.EqualFold(value[last].data, "important") {
		bang := last - 1
		for bang >= first && !significant(value[bang]) {
			bang--
		}
		if bang >= first && value[bang].tt == css.DelimToken && value[bang].data == "!" {
			important = true
			last = bang - 1
			for last >= first && !significant(value[last]) {
				last--
			}
			if first > last {
				return Span{}, false
			}
		}
	}
	return Span{ValueStart: value[first].start, ValueEnd: value[last].end, Important: important}, true
}

// TransformInline rewrites inline style text. Declarations which have no
// transformation rule are preserved byte for byte together with whitespace
// and separators around them. Second returned value is style text for
// direct children of the element, it is empty when no declaration produced
// one.
func TransformInline(source string) (style, children string) {
	return transformSpans(source, ScanDeclarations(source))
}

// TransformParsed is TransformInline for callers which already located
// declarations. Positions are flattened groups of five integers: name start,
// name end, value start, value end and importance flag (non-zero when
// important).
func TransformParsed(source string, positions []int) (style, children string) {
	if len(positions)%5 != 0 {
		panic(fmt.Sprintf("declaration positions must come in groups of 5, got %d values", len(positions)))
	}
	spans := make([]Span, 0, len(positions)/5)
	for i := 0; i < len(positions); i += 5 {
		spans = append(spans, Span{
			NameStart:  positions[i],
			NameEnd:    positions[i+1],
			ValueStart: positions[i+2],
			ValueEnd:   positions[i+3],
			Important:  positions[i+4] != 0,
		})
	}
	return transformSpans(source, spans)
}

func transformSpans(source string, spans []Span) (string, string) {
	var (
		style    strings.Builder
		children strings.Builder
		offset   int
	)

	for _, span := range spans {
		primary, child := Transform(span.name(source), span.value(source))

		if len(primary) > 0 {
			style.WriteString(source[offset:span.NameStart])
			writeDeclarations(&style, primary, span.Important, false)
			offset = span.ValueEnd
		}
		if len(child) > 0 {
			writeDeclarations(&children, child, span.Important, true)
		}
	}

	if offset == 0 {
		return source, children.String()
	}
	style.WriteString(source[offset:])
	return style.String(), children.String()
}

// writeDeclarations serializes declarations as name:value pairs. Separator is
// not written after the last declaration unless trailing is set, whatever
// followed the source value is copied by the caller.
func writeDeclarations(sb *strings.Builder, decls []lcss.Declaration, important, trailing bool) {
	for i, d := range decls {
		sb.WriteString(d.Name)
		sb.WriteByte(':')
		sb.WriteString(d.Value)
		if i == len(decls)-1 && !trailing {
			break
		}
		if important {
			sb.WriteString(" !important")
		}
		sb.WriteByte(';')
	}
}

// TransformKeyValues transforms already split name/value pairs and renders
// them as style text. Every declaration is terminated with semicolon.
func TransformKeyValues(kv []string) string {
	var sb strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		primary, _ := Transform(kv[i], kv[i+1])
		if len(primary) == 0 {
			primary = []lcss.Declaration{{Name: kv[i], Value: kv[i+1]}}
		}
		for _, d := range primary {
			sb.WriteString(d.Name)
			sb.WriteByte(':')
			sb.WriteString(d.Value)
			sb.WriteByte(';')
		}
	}
	return sb.String()
}
