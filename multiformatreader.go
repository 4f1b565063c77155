package zxcore

// ReaderFactory builds a reader configured from opts.
type ReaderFactory func(opts *DecodeOptions) Reader

var (
	readerFactories = map[Format]ReaderFactory{}
	oneDFactory     ReaderFactory
)

// twoDOrder is the order 2D readers are installed in.
var twoDOrder = []Format{FormatQRCode, FormatDataMatrix, FormatPDF417}

// RegisterReader registers the reader factory for a 2D format. Format
// packages call it from init.
func RegisterReader(format Format, factory ReaderFactory) {
	readerFactories[format] = factory
}

// RegisterOneDReader registers the composite reader that handles every 1D
// format.
func RegisterOneDReader(factory ReaderFactory) {
	oneDFactory = factory
}

// MultiFormatReader tries the readers selected by the decode options in
// turn and returns the first result. It is not safe for concurrent use.
type MultiFormatReader struct {
	opts    *DecodeOptions
	readers []Reader
}

// NewMultiFormatReader returns a reader with the default reader set.
func NewMultiFormatReader() *MultiFormatReader {
	r := &MultiFormatReader{}
	r.SetHints(nil)
	return r
}

// Decode configures the reader from opts and decodes image.
func (r *MultiFormatReader) Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error) {
	r.SetHints(opts)
	return r.decodeInternal(image)
}

// DecodeWithState decodes image with the readers from the last SetHints or
// Decode call. Continuous scanning should use it to avoid rebuilding them.
func (r *MultiFormatReader) DecodeWithState(image *BinaryBitmap) (*Result, error) {
	if r.readers == nil {
		r.SetHints(nil)
	}
	return r.decodeInternal(image)
}

// SetHints rebuilds the reader list from opts.
//
// When PossibleFormats is set, the 1D composite is installed if any 1D format
// is named, followed by QR, Data Matrix and PDF417 as named. Without it, the
// 1D composite and QR are installed. TryHarder moves the 1D composite last.
func (r *MultiFormatReader) SetHints(opts *DecodeOptions) {
	r.opts = opts
	tryHarder := opts.IsTryHarder()

	var formats []Format
	if opts != nil {
		formats = opts.PossibleFormats
	}
	addOneD := len(formats) == 0
	for _, f := range formats {
		if f.IsOneD() {
			addOneD = true
		}
	}

	var readers []Reader
	if addOneD && !tryHarder && oneDFactory != nil {
		readers = append(readers, oneDFactory(opts))
	}
	if len(formats) == 0 {
		if factory, ok := readerFactories[FormatQRCode]; ok {
			readers = append(readers, factory(opts))
		}
	} else {
		for _, f := range twoDOrder {
			factory, ok := readerFactories[f]
			if ok && opts.Allows(f) {
				readers = append(readers, factory(opts))
			}
		}
	}
	if addOneD && tryHarder && oneDFactory != nil {
		readers = append(readers, oneDFactory(opts))
	}
	r.readers = readers
}

// Readers returns the installed readers in the order they are tried.
func (r *MultiFormatReader) Readers() []Reader {
	return r.readers
}

// Reset resets every installed reader.
func (r *MultiFormatReader) Reset() {
	for _, reader := range r.readers {
		reader.Reset()
	}
}

func (r *MultiFormatReader) decodeInternal(image *BinaryBitmap) (*Result, error) {
	if result, ok := r.tryReaders(image); ok {
		return result, nil
	}
	if r.opts != nil && r.opts.AlsoInverted {
		if result, ok := r.tryReaders(image.Inverted()); ok {
			return result, nil
		}
	}
	return nil, ErrNotFound
}

// tryReaders returns the first successful result. Reader failures are
// expected and dropped.
func (r *MultiFormatReader) tryReaders(image *BinaryBitmap) (*Result, bool) {
	for _, reader := range r.readers {
		result, err := reader.Decode(image, r.opts)
		if err == nil {
			return result, true
		}
	}
	return nil, false
}

// Decode decodes image with a fresh MultiFormatReader.
func Decode(image *BinaryBitmap, opts *DecodeOptions) (*Result, error) {
	return NewMultiFormatReader().Decode(image, opts)
}
