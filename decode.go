package zxcore

// DecodeHintType names one kind of decoding hint.
type DecodeHintType int

const (
	HintOther DecodeHintType = iota
	HintPureBarcode
	HintPossibleFormats
	HintTryHarder
	HintCharacterSet
	HintAllowedLengths
	HintAssumeCheckDigit
	HintResultPointCallback
	HintAlsoInverted
)

func (h DecodeHintType) String() string {
	switch h {
	case HintPureBarcode:
		return "PURE_BARCODE"
	case HintPossibleFormats:
		return "POSSIBLE_FORMATS"
	case HintTryHarder:
		return "TRY_HARDER"
	case HintCharacterSet:
		return "CHARACTER_SET"
	case HintAllowedLengths:
		return "ALLOWED_LENGTHS"
	case HintAssumeCheckDigit:
		return "ASSUME_CHECK_DIGIT"
	case HintResultPointCallback:
		return "RESULT_POINT_CALLBACK"
	case HintAlsoInverted:
		return "ALSO_INVERTED"
	default:
		return "OTHER"
	}
}

// ResultPointCallback is notified of each point of interest a detector finds
// before decoding completes.
type ResultPointCallback func(ResultPoint)

// DecodeOptions configures barcode decoding behavior. Each field carries the
// value of one DecodeHintType; the zero value means "no hints".
type DecodeOptions struct {
	// PureBarcode hints that the image contains only the barcode with minimal
	// border and no rotation.
	PureBarcode bool

	// TryHarder enables spending more time looking for barcodes.
	TryHarder bool

	// PossibleFormats limits which formats to look for.
	PossibleFormats []Format

	// CharacterSet specifies the character set to use when decoding.
	CharacterSet string

	// AllowedLengths restricts the set of valid barcode lengths for 1D formats.
	AllowedLengths []int

	// AssumeCheckDigit assumes Code 39 includes a check digit.
	AssumeCheckDigit bool

	// ResultPointCallback receives detector points as they are found.
	ResultPointCallback ResultPointCallback

	// AlsoInverted retries every reader on the inverted image.
	AlsoInverted bool

	// Other carries hints no reader in this module interprets.
	Other map[string]any
}

// Hints lists the hint kinds set in o.
func (o *DecodeOptions) Hints() []DecodeHintType {
	if o == nil {
		return nil
	}
	var out []DecodeHintType
	if len(o.Other) > 0 {
		out = append(out, HintOther)
	}
	if o.PureBarcode {
		out = append(out, HintPureBarcode)
	}
	if len(o.PossibleFormats) > 0 {
		out = append(out, HintPossibleFormats)
	}
	if o.TryHarder {
		out = append(out, HintTryHarder)
	}
	if o.CharacterSet != "" {
		out = append(out, HintCharacterSet)
	}
	if len(o.AllowedLengths) > 0 {
		out = append(out, HintAllowedLengths)
	}
	if o.AssumeCheckDigit {
		out = append(out, HintAssumeCheckDigit)
	}
	if o.ResultPointCallback != nil {
		out = append(out, HintResultPointCallback)
	}
	if o.AlsoInverted {
		out = append(out, HintAlsoInverted)
	}
	return out
}

// IsTryHarder is a nil-safe accessor for TryHarder.
func (o *DecodeOptions) IsTryHarder() bool {
	return o != nil && o.TryHarder
}

// Allows reports whether f is acceptable under PossibleFormats. An empty list
// allows every format.
func (o *DecodeOptions) Allows(f Format) bool {
	if o == nil || len(o.PossibleFormats) == 0 {
		return true
	}
	for _, p := range o.PossibleFormats {
		if p == f {
			return true
		}
	}
	return false
}

// NotifyPoint forwards p to the ResultPointCallback, if any.
func (o *DecodeOptions) NotifyPoint(p ResultPoint) {
	if o != nil && o.ResultPointCallback != nil {
		o.ResultPointCallback(p)
	}
}

// Reader decodes barcodes from a BinaryBitmap.
type Reader interface {
	// Decode attempts to decode a barcode from the image.
	Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error)

	// Reset resets any internal state.
	Reset()
}
