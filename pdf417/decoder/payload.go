package decoder

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/ericlevine/zxcore/charset"
)

// payload collects decoded bytes. Bytes are interpreted in the character
// set in effect when they were added; an ECI switches it for what follows.
type payload struct {
	text    strings.Builder
	raw     []byte
	pending []byte
	enc     encoding.Encoding
	name    string
}

// newPayload starts in the named character set, ISO-8859-1 when empty.
func newPayload(characterSet string) (*payload, error) {
	p := &payload{enc: charset.ISO8859_1.Encoding, name: charset.ISO8859_1.Name}
	if characterSet != "" {
		enc, err := charset.Lookup(characterSet)
		if err != nil {
			return nil, err
		}
		p.enc, p.name = enc, characterSet
	}
	return p, nil
}

func (p *payload) writeByte(b byte) {
	p.pending = append(p.pending, b)
	p.raw = append(p.raw, b)
}

func (p *payload) writeString(s string) {
	for i := 0; i < len(s); i++ {
		p.writeByte(s[i])
	}
}

// setECI converts what was collected so far and switches character set.
func (p *payload) setECI(value int) error {
	eci, err := charset.ByValue(value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := p.flush(); err != nil {
		return err
	}
	p.enc, p.name = eci.Encoding, eci.Name
	return nil
}

func (p *payload) flush() error {
	if len(p.pending) == 0 {
		return nil
	}
	out, _, err := transform.Bytes(p.enc.NewDecoder(), p.pending)
	if err != nil {
		return fmt.Errorf("decoding %s: %w: %w", p.name, ErrFormat, err)
	}
	p.text.Write(out)
	p.pending = p.pending[:0]
	return nil
}

func (p *payload) empty() bool { return len(p.raw) == 0 }

// String returns the text decoded so far.
func (p *payload) String() (string, error) {
	if err := p.flush(); err != nil {
		return "", err
	}
	return p.text.String(), nil
}
