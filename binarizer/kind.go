package binarizer

import (
	"fmt"
	"strings"

	"github.com/ericlevine/zxcore"
)

// Kind names a thresholding strategy.
type Kind string

const (
	KindGlobal Kind = "global"
	KindHybrid Kind = "hybrid"
)

// ParseKind accepts "global" or "hybrid", in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindGlobal, KindHybrid:
		return k, nil
	}
	return "", fmt.Errorf("unknown binarizer %q", s)
}

// New returns a binarizer of the given kind over source.
func New(kind Kind, source zxcore.LuminanceSource) (zxcore.Binarizer, error) {
	switch kind {
	case KindGlobal:
		return NewGlobalHistogram(source), nil
	case KindHybrid:
		return NewHybrid(source), nil
	}
	return nil, fmt.Errorf("unknown binarizer %q", kind)
}
