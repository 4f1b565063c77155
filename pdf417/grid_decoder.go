package pdf417

import (
	"fmt"
	"strconv"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/pdf417/decoder"
	"github.com/ericlevine/zxcore/pdf417/detector"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// GridDecoder turns a sampled codeword grid into a decoded result.
type GridDecoder interface {
	DecodeGrid(grid *detector.CodewordGrid, opts *zxcore.DecodeOptions) (*zxcore.Result, error)
}

// maxECLevel is the highest PDF417 error correction level.
const maxECLevel = 8

// CodewordDecoder is the default GridDecoder: it maps patterns to codewords,
// corrects errors and parses the codeword stream.
type CodewordDecoder struct {
	table *symbol.Table
}

// NewCodewordDecoder returns a decoder reading patterns with table. A nil
// table means symbol.Enumerated.
func NewCodewordDecoder(table *symbol.Table) *CodewordDecoder {
	if table == nil {
		table = symbol.Enumerated()
	}
	return &CodewordDecoder{table: table}
}

// DecodeGrid decodes grid. The row indicator columns are dropped; cells that
// are missing, unknown or of the wrong cluster for their row are erasures.
func (d *CodewordDecoder) DecodeGrid(grid *detector.CodewordGrid, opts *zxcore.DecodeOptions) (*zxcore.Result, error) {
	codewords, erasures, err := d.codewords(grid)
	if err != nil {
		return nil, err
	}

	ecLevel := grid.ECLevel
	if ecLevel < 0 {
		if ecLevel, err = inferECLevel(codewords, erasures); err != nil {
			return nil, err
		}
	}
	numEC := 2 << ecLevel
	if numEC >= len(codewords) {
		return nil, fmt.Errorf("pdf417: %d error correction codewords in %d: %w", numEC, len(codewords), zxcore.ErrFormat)
	}
	if len(erasures) > numEC/2+3 {
		return nil, fmt.Errorf("pdf417: %d erasures at level %d: %w", len(erasures), ecLevel, zxcore.ErrChecksum)
	}
	if err := repairLength(codewords, numEC); err != nil {
		return nil, err
	}

	corrected, err := decoder.CorrectErrors(codewords, numEC)
	if err != nil {
		return nil, err
	}
	characterSet := ""
	if opts != nil {
		characterSet = opts.CharacterSet
	}
	dr, err := decoder.Parse(codewords, strconv.Itoa(ecLevel), characterSet)
	if err != nil {
		return nil, err
	}

	result := zxcore.NewResult(dr.Text, dr.RawBytes, nil, zxcore.FormatPDF417)
	result.PutMetadata(zxcore.MetadataErrorCorrectionLevel, dr.ECLevel)
	result.PutMetadata(zxcore.MetadataErrorsCorrected, corrected)
	result.PutMetadata(zxcore.MetadataErasuresCorrected, len(erasures))
	if len(dr.ByteSegments) > 0 {
		result.PutMetadata(zxcore.MetadataByteSegments, dr.ByteSegments)
	}
	if dr.Other != nil {
		result.PutMetadata(zxcore.MetadataPDF417ExtraMetadata, dr.Other)
	}
	result.PutMetadata(zxcore.MetadataSymbologyIdentifier, "]L2")
	return result, nil
}

// codewords reads the data columns of grid in row order. Erased cells read
// as 0 and their indexes are returned.
func (d *CodewordDecoder) codewords(grid *detector.CodewordGrid) (codewords, erasures []int, err error) {
	columns := grid.Columns() - 2
	if columns < 1 || grid.Rows() < 1 {
		return nil, nil, fmt.Errorf("pdf417: %dx%d grid has no data columns: %w", grid.Rows(), grid.Columns(), zxcore.ErrNotFound)
	}
	codewords = make([]int, 0, grid.Rows()*columns)
	for r := 0; r < grid.Rows(); r++ {
		family := symbol.Clusters[r%3]
		for _, p := range grid.Row(r)[1 : columns+1] {
			cw, cluster, ok := d.table.Codeword(p)
			if p == 0 || !ok || cluster != family {
				erasures = append(erasures, len(codewords))
				cw = 0
			}
			codewords = append(codewords, cw)
		}
	}
	return codewords, erasures, nil
}

// inferECLevel derives the level from the length descriptor when the row
// indicators could not be read.
func inferECLevel(codewords, erasures []int) (int, error) {
	if len(erasures) > 0 && erasures[0] == 0 {
		return 0, fmt.Errorf("pdf417: length descriptor and error correction level both lost: %w", zxcore.ErrFormat)
	}
	numEC := len(codewords) - codewords[0]
	for level := 0; level <= maxECLevel; level++ {
		if 2<<level == numEC {
			return level, nil
		}
	}
	return 0, fmt.Errorf("pdf417: %d error correction codewords is not a valid count: %w", numEC, zxcore.ErrFormat)
}

// repairLength restores a lost length descriptor and rejects one that cannot
// describe the symbol.
func repairLength(codewords []int, numEC int) error {
	total := len(codewords)
	if codewords[0] == 0 {
		codewords[0] = total - numEC
	}
	if codewords[0] < 1 || codewords[0] > total {
		return fmt.Errorf("pdf417: length descriptor %d of %d codewords: %w", codewords[0], total, zxcore.ErrFormat)
	}
	return nil
}
