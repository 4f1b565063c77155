package qrcode

import "github.com/ericlevine/zxcore"

func init() {
	zxcore.RegisterReader(zxcore.FormatQRCode, func(*zxcore.DecodeOptions) zxcore.Reader {
		return NewReader()
	})
}
