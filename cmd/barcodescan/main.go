// Command barcodescan detects and decodes barcodes in image files.
package main

import (
	"os"

	// Register all format readers.
	_ "github.com/ericlevine/zxcore/datamatrix"
	_ "github.com/ericlevine/zxcore/oned"
	_ "github.com/ericlevine/zxcore/pdf417"
	_ "github.com/ericlevine/zxcore/qrcode"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
