package symbol

import (
	"io"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk form of a Table:
//
//	clusters:
//	  0: ["31111136", 0x1eaf0, ...]
//	  3: [...]
//	  6: [...]
type tableFile struct {
	Clusters map[int][]patternValue `yaml:"clusters"`
}

// patternValue accepts either an integer pattern or a width string.
type patternValue int

func (p *patternValue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: pattern must be a scalar", node.Line)
	}
	if node.ShortTag() == "!!int" {
		v, err := strconv.ParseInt(node.Value, 0, 32)
		if err != nil {
			return errors.Wrapf(err, "line %d", node.Line)
		}
		*p = patternValue(v)
		return nil
	}
	v, err := ParseWidths(node.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", node.Line)
	}
	*p = patternValue(v)
	return nil
}

// Load reads a table from YAML. Each cluster lists its 929 patterns in
// codeword order, as integers or as width strings.
func Load(r io.Reader) (*Table, error) {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decoding symbol table")
	}
	var lists [3][]int
	for i, c := range Clusters {
		values, ok := f.Clusters[c]
		if !ok {
			return nil, errors.Errorf("symbol table has no cluster %d", c)
		}
		lists[i] = make([]int, len(values))
		for j, v := range values {
			lists[i][j] = int(v)
		}
	}
	t, err := NewTable(lists)
	if err != nil {
		return nil, errors.Wrap(err, "invalid symbol table")
	}
	return t, nil
}

// WriteYAML writes t in the form Load reads, using width strings.
func (t *Table) WriteYAML(w io.Writer) error {
	out := struct {
		Clusters map[int][]string `yaml:"clusters"`
	}{Clusters: make(map[int][]string, 3)}
	for f, c := range Clusters {
		list := make([]string, NumberOfCodewords)
		for cw, p := range t.patterns[f] {
			list[cw] = FormatWidths(p)
		}
		out.Clusters[c] = list
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(err, "encoding symbol table")
	}
	return errors.Wrap(enc.Close(), "encoding symbol table")
}
