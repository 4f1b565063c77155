package pdf417

import (
	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// SymbolTableHint is the DecodeOptions.Other key under which a caller may
// pass a *symbol.Table for readers built by the dispatcher.
const SymbolTableHint = "pdf417.symbolTable"

func init() {
	zxcore.RegisterReader(zxcore.FormatPDF417, func(opts *zxcore.DecodeOptions) zxcore.Reader {
		if opts != nil {
			if t, ok := opts.Other[SymbolTableHint].(*symbol.Table); ok {
				return NewReader(WithSymbolTable(t))
			}
		}
		return NewReader()
	})
}
