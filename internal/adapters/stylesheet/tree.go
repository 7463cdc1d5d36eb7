// Package stylesheet rewrites plain CSS: vendor prefixing, pretty printing
// and comment removal.
package stylesheet

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

type nodeKind uint8

const (
	kindComment nodeKind = iota
	kindStatement
	kindBlock
	kindRuleset
	kindDeclaration
	kindRaw
)

// node is one item of a parsed stylesheet.
type node struct {
	kind nodeKind
	// name is the at-rule keyword or the property name.
	name string
	// prelude is the selector list, at-rule parameters, declaration value or raw text.
	prelude  string
	children []*node
}

// parseTree reads a stylesheet into a tree of blocks, rulesets and declarations.
func parseTree(src []byte) ([]*node, error) {
	p := css.NewParser(parse.NewInputBytes(src), false)

	root := &node{kind: kindBlock}
	stack := []*node{root}
	var selectors []string

	top := func() *node { return stack[len(stack)-1] }
	push := func(n *node) { top().children = append(top().children, n) }

	for {
		gt, _, data := p.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := p.Err(); errors.Is(err, io.EOF) {
				if len(stack) > 1 {
					return nil, zerr.With(domain.ErrStylesheetParseFailed, "reason", "unclosed block")
				}
				return root.children, nil
			} else if err != nil {
				return nil, zerr.Wrap(err, domain.ErrStylesheetParseFailed.Error())
			}
			push(&node{kind: kindRaw, prelude: string(data)})

		case css.CommentGrammar:
			push(&node{kind: kindComment, prelude: string(data)})

		case css.AtRuleGrammar:
			push(&node{kind: kindStatement, name: string(data), prelude: joinTokens(p.Values())})

		case css.BeginAtRuleGrammar:
			n := &node{kind: kindBlock, name: string(data), prelude: joinTokens(p.Values())}
			push(n)
			stack = append(stack, n)

		case css.QualifiedRuleGrammar:
			selectors = append(selectors, joinTokens(p.Values()))

		case css.BeginRulesetGrammar:
			selectors = append(selectors, joinTokens(p.Values()))
			n := &node{kind: kindRuleset, prelude: strings.Join(selectors, ", ")}
			selectors = selectors[:0]
			push(n)
			stack = append(stack, n)

		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			if len(stack) == 1 {
				return nil, zerr.With(domain.ErrStylesheetParseFailed, "reason", "unexpected }")
			}
			stack = stack[:len(stack)-1]

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			push(&node{kind: kindDeclaration, name: string(data), prelude: joinTokens(p.Values())})

		default:
			push(&node{kind: kindRaw, prelude: string(data) + joinTokens(p.Values())})
		}
	}
}

// joinTokens concatenates tokens, collapsing whitespace runs to one space.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// printTree renders nodes with one declaration per line, two-space
// indentation and a blank line between rules.
func printTree(nodes []*node) []byte {
	var buf bytes.Buffer
	printNodes(&buf, nodes, 0)
	return buf.Bytes()
}

func printNodes(buf *bytes.Buffer, nodes []*node, depth int) {
	indent := strings.Repeat("  ", depth)

	for i, n := range nodes {
		if i > 0 && n.kind != kindDeclaration && nodes[i-1].kind != kindDeclaration {
			buf.WriteByte('\n')
		}

		switch n.kind {
		case kindComment, kindRaw:
			buf.WriteString(indent + n.prelude + "\n")
		case kindStatement:
			buf.WriteString(indent + withParams(n.name, n.prelude) + ";\n")
		case kindDeclaration:
			buf.WriteString(indent + n.name + ": " + n.prelude + ";\n")
		case kindBlock, kindRuleset:
			head := n.prelude
			if n.kind == kindBlock {
				head = withParams(n.name, n.prelude)
			}
			buf.WriteString(indent + head + " {\n")
			printNodes(buf, n.children, depth+1)
			buf.WriteString(indent + "}\n")
		}
	}
}

func withParams(name, params string) string {
	if params == "" {
		return name
	}
	return name + " " + params
}
