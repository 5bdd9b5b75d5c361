package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lookbusy1344/regdeps-toolkit/regdeps"
)

// Predicate reports whether an instruction at the given trace index
// matches a compiled filter expression.
type Predicate func(inst *regdeps.Instruction, index int) bool

// FilterParser parses a trace-filter expression ("category==branch &&
// writes(V3)") into a Predicate, using precedence climbing over `||`,
// `&&`, and unary `!`, with `category==NAME`, `writes(Vn)`, and
// `reads(Vn)` as the atoms.
type FilterParser struct {
	tokens []FilterToken
	pos    int
}

// NewFilterParser creates a parser over tokens (as produced by Tokenize).
func NewFilterParser(tokens []FilterToken) *FilterParser {
	return &FilterParser{tokens: tokens}
}

// Parse compiles the expression into a Predicate.
func Parse(expr string) (Predicate, error) {
	p := NewFilterParser(Tokenize(expr))
	pred, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.current().Type != FilterTokenEOF {
		return nil, fmt.Errorf("unexpected token %q at position %d", p.current().Value, p.current().Pos)
	}
	return pred, nil
}

func (p *FilterParser) current() FilterToken {
	if p.pos >= len(p.tokens) {
		return FilterToken{Type: FilterTokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *FilterParser) advance() {
	p.pos++
}

func (p *FilterParser) parseOr() (Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.current().Type == FilterTokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(inst *regdeps.Instruction, i int) bool { return l(inst, i) || r(inst, i) }
	}
	return left, nil
}

func (p *FilterParser) parseAnd() (Predicate, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.current().Type == FilterTokenAnd {
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l, r := left, right
		left = func(inst *regdeps.Instruction, i int) bool { return l(inst, i) && r(inst, i) }
	}
	return left, nil
}

func (p *FilterParser) parseUnary() (Predicate, error) {
	if p.current().Type == FilterTokenNot {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return func(inst *regdeps.Instruction, i int) bool { return !inner(inst, i) }, nil
	}
	return p.parseAtom()
}

func (p *FilterParser) parseAtom() (Predicate, error) {
	tok := p.current()

	if tok.Type == FilterTokenLParen {
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.current().Type != FilterTokenRParen {
			return nil, fmt.Errorf("expected ')' at position %d", p.current().Pos)
		}
		p.advance()
		return inner, nil
	}

	if tok.Type != FilterTokenIdent {
		return nil, fmt.Errorf("expected an identifier at position %d, got %q", tok.Pos, tok.Value)
	}

	switch strings.ToLower(tok.Value) {
	case "category":
		p.advance()
		if p.current().Type != FilterTokenEq && p.current().Type != FilterTokenNeq {
			return nil, fmt.Errorf("expected '==' or '!=' after 'category'")
		}
		negate := p.current().Type == FilterTokenNeq
		p.advance()
		nameTok := p.current()
		if nameTok.Type != FilterTokenIdent {
			return nil, fmt.Errorf("expected a category name at position %d", nameTok.Pos)
		}
		p.advance()
		cat, err := parseCategoryName(nameTok.Value)
		if err != nil {
			return nil, err
		}
		return func(inst *regdeps.Instruction, _ int) bool {
			match := inst.Category.Has(cat)
			if negate {
				return !match
			}
			return match
		}, nil

	case "writes", "reads":
		isWrite := strings.ToLower(tok.Value) == "writes"
		p.advance()
		if p.current().Type != FilterTokenLParen {
			return nil, fmt.Errorf("expected '(' after %q", tok.Value)
		}
		p.advance()
		regTok := p.current()
		if regTok.Type != FilterTokenRegister {
			return nil, fmt.Errorf("expected a register like V3 at position %d", regTok.Pos)
		}
		p.advance()
		if p.current().Type != FilterTokenRParen {
			return nil, fmt.Errorf("expected ')' at position %d", p.current().Pos)
		}
		p.advance()
		n, err := strconv.Atoi(regTok.Value[1:])
		if err != nil || n < 0 || n > int(regdeps.MaxReg) {
			return nil, fmt.Errorf("invalid register %q", regTok.Value)
		}
		reg := regdeps.V(uint8(n))
		return func(inst *regdeps.Instruction, _ int) bool {
			regs := inst.Srcs
			if isWrite {
				regs = inst.Dsts
			}
			for _, r := range regs {
				if r == reg {
					return true
				}
			}
			return false
		}, nil

	default:
		return nil, fmt.Errorf("unknown filter term %q", tok.Value)
	}
}

func parseCategoryName(name string) (regdeps.Category, error) {
	switch strings.ToLower(name) {
	case "int-math", "intmath":
		return regdeps.CategoryIntMath, nil
	case "fp-math", "floatmath":
		return regdeps.CategoryFloatMath, nil
	case "load":
		return regdeps.CategoryLoad, nil
	case "store":
		return regdeps.CategoryStore, nil
	case "branch":
		return regdeps.CategoryBranch, nil
	case "simd":
		return regdeps.CategorySIMD, nil
	case "other":
		return regdeps.CategoryOther, nil
	case "uncategorized":
		return regdeps.CategoryUncategorized, nil
	default:
		return 0, fmt.Errorf("unknown category %q", name)
	}
}
