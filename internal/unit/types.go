package unit

import (
	"fmt"
	"strings"

	"github.com/mavelang/optbridge/internal/config"
	"github.com/mavelang/optbridge/internal/typesystem"
)

// ParseType reads the type notation used in unit files: "User", "String?",
// "Opt<String>", "List<Int>?", "Map<String, Int>". This is the fixture
// notation only; the host language's grammar lives upstream.
func ParseType(s string) (typesystem.Type, error) {
	p := &typeParser{input: strings.TrimSpace(s)}
	t, err := p.parse()
	if err != nil {
		return nil, fmt.Errorf("type notation %q: %w", s, err)
	}
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("type notation %q: trailing input at offset %d", s, p.pos)
	}
	return t, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) parse() (typesystem.Type, error) {
	name := p.readName()
	if name == "" {
		return nil, fmt.Errorf("expected type name at offset %d", p.pos)
	}

	var t typesystem.Type
	if p.peek() == '<' {
		p.pos++ // consume '<'
		var args []typesystem.Type
		for {
			arg, err := p.parse()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek() == ',' {
				p.pos++
				p.skipSpaces()
				continue
			}
			break
		}
		if p.peek() != '>' {
			return nil, fmt.Errorf("expected '>' at offset %d", p.pos)
		}
		p.pos++ // consume '>'

		if name == config.OptionalTypeName {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s takes exactly one type argument", config.OptionalTypeName)
			}
			t = typesystem.TOptional{Elem: args[0]}
		} else {
			t = typesystem.TApp{Constructor: typesystem.TCon{Name: name}, Args: args}
		}
	} else {
		t = typesystem.TCon{Name: name}
	}

	// Trailing '?' marks the native nullable; repeated markers flatten.
	for p.peek() == '?' {
		p.pos++
		t = typesystem.Nullable(t)
	}
	return t, nil
}

func (p *typeParser) readName() string {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '.' {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *typeParser) skipSpaces() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}
