package oned

import "github.com/ericlevine/zxcore"

func init() {
	zxcore.RegisterOneDReader(func(opts *zxcore.DecodeOptions) zxcore.Reader {
		return NewReader(opts)
	})
}
