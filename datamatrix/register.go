package datamatrix

import "github.com/ericlevine/zxcore"

func init() {
	zxcore.RegisterReader(zxcore.FormatDataMatrix, func(*zxcore.DecodeOptions) zxcore.Reader {
		return NewReader()
	})
}
