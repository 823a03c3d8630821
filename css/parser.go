package css

import (
	"bytes"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into rules with compound selectors.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a StyleSheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *StyleSheet {
	sheet := &StyleSheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		atRules  strings.Builder
		selector strings.Builder
	)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if parser.Err() != nil && parser.Err().Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(parser.Err()))
			}
			sheet.AtRules = atRules.String()
			return sheet

		case css.AtRuleGrammar:
			name := strings.ToLower(string(data))
			if name != "@import" {
				writeAtRulePrelude(&atRules, name, parser.Values())
				atRules.WriteByte(';')
				continue
			}
			target := extractImportTarget(parser.Values())
			id, err := strconv.Atoi(target)
			if err != nil {
				sheet.Warnings = append(sheet.Warnings, "unsupported import target: "+target)
				p.log.Debug("Skipping @import", zap.String("target", target), zap.Error(err))
				continue
			}
			sheet.Imports = append(sheet.Imports, id)
			p.log.Debug("Parsed @import", zap.Int("id", id))

		case css.BeginAtRuleGrammar:
			name := strings.ToLower(string(data))
			writeAtRulePrelude(&atRules, name, parser.Values())
			atRules.WriteByte('{')
			p.copyAtRuleBlock(parser, &atRules)
			p.log.Debug("Preserved @-rule", zap.String("rule", name))

		case css.QualifiedRuleGrammar:
			// Selector alternative followed by a comma, the rest comes with
			// BeginRulesetGrammar.
			selector.Write(data)
			writeTokens(&selector, parser.Values())
			selector.WriteByte(',')

		case css.BeginRulesetGrammar:
			selector.Write(data)
			writeTokens(&selector, parser.Values())
			text := selector.String()
			selector.Reset()

			rule := Rule{Selectors: p.ParseSelectors(text)}
			rule.Declarations = p.parseDeclarations(parser)
			if len(rule.Selectors) == 0 {
				sheet.Warnings = append(sheet.Warnings, "empty selector: "+text)
				p.log.Debug("Skipping rule without selectors", zap.String("selector", text))
				continue
			}
			sheet.Rules = append(sheet.Rules, rule)
		}
	}
}

// ParseSelectors splits selector list text into compound selectors. Empty
// alternatives are dropped.
func (p *Parser) ParseSelectors(text string) []Selector {
	tokens := lexTokens(text)

	var (
		result  []Selector
		current Selector
		comp    Compound
		space   bool
	)

	compEmpty := func() bool {
		return len(comp.Plain) == 0 && len(comp.PseudoClasses) == 0 && len(comp.PseudoElements) == 0
	}
	closeCompound := func(combinator string) {
		if compEmpty() {
			return
		}
		if combinator != "" {
			comp.Combinators = append(comp.Combinators, combinator)
		}
		current = append(current, comp)
		comp = Compound{}
	}
	closeSelector := func() {
		closeCompound("")
		if len(current) > 0 {
			// trailing combinator without following compound is meaningless
			last := &current[len(current)-1]
			last.Combinators = nil
			result = append(result, current)
		}
		current, comp, space = nil, Compound{}, false
	}

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]

		switch {
		case t.tt == css.WhitespaceToken || t.tt == css.CommentToken:
			space = !compEmpty()
			continue
		case t.tt == css.CommaToken:
			closeSelector()
			continue
		case t.tt == css.DelimToken && (t.data == ">" || t.data == "+" || t.data == "~"):
			closeCompound(" " + t.data + " ")
			space = false
			continue
		case t.tt == css.ColumnToken:
			closeCompound(" || ")
			space = false
			continue
		}

		if space {
			closeCompound(" ")
			space = false
		}

		switch t.tt {
		case css.ColonToken:
			if i+1 < len(tokens) && tokens[i+1].tt == css.ColonToken {
				var text string
				text, i = captureSimple(tokens, i+2)
				comp.PseudoElements = append(comp.PseudoElements, "::"+text)
				continue
			}
			var text string
			text, i = captureSimple(tokens, i+1)
			comp.PseudoClasses = append(comp.PseudoClasses, ":"+text)
		case css.LeftBracketToken:
			var text string
			text, i = captureBlock(tokens, i)
			comp.Plain = append(comp.Plain, text)
		case css.DelimToken:
			if t.data == "." && i+1 < len(tokens) && tokens[i+1].tt == css.IdentToken {
				comp.Plain = append(comp.Plain, "."+tokens[i+1].data)
				i++
				continue
			}
			comp.Plain = append(comp.Plain, t.data)
		default:
			comp.Plain = append(comp.Plain, t.data)
		}
	}
	closeSelector()
	return result
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser) []Declaration {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar:
			value, important := declarationValue(parser.Values())
			if value == "" {
				continue
			}
			decls = append(decls, Declaration{
				Name:      strings.ToLower(string(data)),
				Value:     value,
				Important: important,
			})

		case css.CustomPropertyGrammar:
			var sb strings.Builder
			writeTokens(&sb, parser.Values())
			decls = append(decls, Declaration{
				Name:  string(data),
				Value: strings.TrimSpace(sb.String()),
			})

		case css.BeginRulesetGrammar, css.BeginAtRuleGrammar:
			// nested rules are not supported
			p.log.Debug("Skipping nested block", zap.ByteString("block", data))
			p.skipBlock(parser)
		}
	}
}

// copyAtRuleBlock writes everything until the matching end of an @-rule block.
func (p *Parser) copyAtRuleBlock(parser *css.Parser, sb *strings.Builder) {
	depth := 1
	for depth > 0 {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			for range depth {
				sb.WriteByte('}')
			}
			return
		case css.BeginAtRuleGrammar:
			depth++
			writeAtRulePrelude(sb, strings.ToLower(string(data)), parser.Values())
			sb.WriteByte('{')
		case css.AtRuleGrammar:
			writeAtRulePrelude(sb, strings.ToLower(string(data)), parser.Values())
			sb.WriteByte(';')
		case css.QualifiedRuleGrammar:
			sb.Write(data)
			writeTokens(sb, parser.Values())
			sb.WriteByte(',')
		case css.BeginRulesetGrammar:
			depth++
			sb.Write(data)
			writeTokens(sb, parser.Values())
			sb.WriteByte('{')
		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			sb.Write(data)
			sb.WriteByte(':')
			writeTokens(sb, parser.Values())
			sb.WriteByte(';')
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
			sb.WriteByte('}')
		}
	}
}

// skipBlock skips tokens until the matching end of a block.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// declarationValue builds value text from tokens collapsing whitespace and
// separates trailing "!important".
func declarationValue(tokens []css.Token) (string, bool) {
	end := len(tokens)
	for end > 0 && tokens[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	important := false
	if end > 0 && tokens[end-1].TokenType == css.IdentToken && strings.EqualFold(string(tokens[end-1].Data), "important") {
		bang := end - 2
		for bang >= 0 && tokens[bang].TokenType == css.WhitespaceToken {
			bang--
		}
		if bang >= 0 && tokens[bang].TokenType == css.DelimToken && string(tokens[bang].Data) == "!" {
			important = true
			end = bang
		}
	}

	var sb strings.Builder
	writeTokens(&sb, tokens[:end])
	return strings.TrimSpace(sb.String()), important
}

// writeTokens writes token data replacing every whitespace run with a single space.
func writeTokens(sb *strings.Builder, tokens []css.Token) {
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}
}

func writeAtRulePrelude(sb *strings.Builder, name string, tokens []css.Token) {
	sb.WriteString(name)
	var prelude strings.Builder
	writeTokens(&prelude, tokens)
	if s := strings.TrimSpace(prelude.String()); s != "" {
		sb.WriteByte(' ')
		sb.WriteString(s)
	}
}

// extractImportTarget extracts the target from @import tokens.
// Handles: @import "2"; @import url("2"); @import url(2); @import 2;
func extractImportTarget(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.NumberToken:
			return string(t.Data)
		case css.URLToken:
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

type token struct {
	tt   css.TokenType
	data string
}

func lexTokens(text string) []token {
	var tokens []token
	l := css.NewLexer(parse.NewInputString(text))
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			return tokens
		}
		tokens = append(tokens, token{tt: tt, data: string(data)})
	}
}

// captureSimple returns text of a pseudo selector name starting at i,
// including function arguments, and index of the last consumed token.
func captureSimple(tokens []token, i int) (string, int) {
	if i >= len(tokens) {
		return "", len(tokens) - 1
	}
	if tokens[i].tt == css.FunctionToken {
		return captureBlock(tokens, i)
	}
	return tokens[i].data, i
}

// captureBlock returns raw text from the opening token at tokens[i] up to the
// matching closing token and index of that token.
func captureBlock(tokens []token, i int) (string, int) {
	var sb strings.Builder
	depth := 0
	for ; i < len(tokens); i++ {
		t := tokens[i]
		switch t.tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		}
		sb.WriteString(t.data)
		if depth == 0 {
			return sb.String(), i
		}
	}
	return sb.String(), len(tokens) - 1
}
