package detector

import (
	"fmt"
	"sort"

	"github.com/ericlevine/zxcore"
	"github.com/ericlevine/zxcore/bitutil"
	"github.com/ericlevine/zxcore/pdf417/symbol"
)

// barcodeStartOffset is skipped at the left of every scan line. The first
// bar is assumed black, as determined by the PDF417 standard, so small white
// bars from sampling deviations there are filtered out.
const barcodeStartOffset = 2

// LinesSampler detects valid codewords in a deskewed lines matrix. It relies
// on these properties of PDF417:
//
//   - each codeword is 17 modules wide;
//   - each codeword begins with a black bar and ends with a white space;
//   - each codeword consists of 4 bars and 4 spaces;
//   - every valid codeword is in the symbol table.
type LinesSampler struct {
	lines          *bitutil.BitMatrix
	symbolsPerLine int
	table          *symbol.Table
}

// NewLinesSampler returns a sampler for a lines matrix covering a codeword
// area dimension modules wide. A nil table means symbol.Enumerated.
func NewLinesSampler(lines *bitutil.BitMatrix, dimension int, table *symbol.Table) *LinesSampler {
	if table == nil {
		table = symbol.Enumerated()
	}
	return &LinesSampler{
		lines:          lines,
		symbolsPerLine: dimension / symbol.ModulesInCodeword,
		table:          table,
	}
}

// Sample reads a codeword grid from the lines matrix.
func (s *LinesSampler) Sample() (*CodewordGrid, error) {
	if s.symbolsPerLine < 1 {
		return nil, fmt.Errorf("pdf417: no codeword fits the lines matrix: %w", zxcore.ErrNotFound)
	}
	symbolWidths := s.SymbolWidths()
	if s.symbolsPerLine > len(symbolWidths) {
		return nil, fmt.Errorf("pdf417: %d symbol widths for %d codewords per line: %w",
			len(symbolWidths), s.symbolsPerLine, zxcore.ErrNotFound)
	}

	codewords, clusters := s.linesToCodewords(symbolWidths)
	votes, ok := s.distributeVotes(codewords, clusters)
	if !ok {
		return nil, fmt.Errorf("pdf417: no scan line starts a row: %w", zxcore.ErrNotFound)
	}

	grid := NewCodewordGrid(votes.rows(), s.symbolsPerLine)
	for r := 0; r < grid.Rows(); r++ {
		for c := 0; c < grid.Columns(); c++ {
			if p, decisive := plurality(votes.at(r, c)); decisive {
				grid.Set(r, c, p)
			}
		}
	}
	insertMissingRows(grid)
	s.decodeRowCount(grid)
	return grid, nil
}

// SymbolWidths finds the pixel width of every codeword column. Every symbol
// starts with a black module, so columns that are black on every scan line
// mark symbol starts. The widths sum to the matrix width.
func (s *LinesSampler) SymbolWidths() []float64 {
	width := s.lines.Width()
	expectedSymbolWidth := float64(width)
	if s.symbolsPerLine > 0 {
		expectedSymbolWidth /= float64(s.symbolsPerLine)
	}

	var symbolWidths []float64
	addWidth := func(currentWidth float64) {
		// The actual symbol width might be slightly bigger than the expected
		// one. More than half a symbol bigger means symbols without a visible
		// start were skipped; assume they had the expected width.
		for currentWidth > 1.5*expectedSymbolWidth {
			symbolWidths = append(symbolWidths, expectedSymbolWidth)
			currentWidth -= expectedSymbolWidth
		}
		symbolWidths = append(symbolWidths, currentWidth)
	}

	symbolStart := 0
	lastWasSymbolStart := true
	for x := barcodeStartOffset; x < width; x++ {
		if !s.lines.IsColumnSet(x) {
			lastWasSymbolStart = false
			continue
		}
		if lastWasSymbolStart {
			continue
		}
		// A full black column inside a symbol is possible, so require 75% of
		// the expected width before accepting a new start.
		currentWidth := float64(x - symbolStart)
		if currentWidth > 0.75*expectedSymbolWidth {
			addWidth(currentWidth)
			lastWasSymbolStart = true
			symbolStart = x
		}
	}
	// The last symbol ends at the right edge of the matrix, where there
	// usually is no black bar.
	addWidth(float64(width - symbolStart))
	return symbolWidths
}

// linesToCodewords recognizes the codewords of every scan line. A cell the
// line could not segment holds pattern 0 and cluster -1.
func (s *LinesSampler) linesToCodewords(symbolWidths []float64) (codewords, clusters [][]int) {
	height := s.lines.Height()
	codewords = make([][]int, height)
	clusters = make([][]int, height)
	row := bitutil.NewBitArray(s.lines.Width())
	cwStarts := make([]int, s.symbolsPerLine)

	for y := 0; y < height; y++ {
		codewords[y] = make([]int, s.symbolsPerLine)
		clusters[y] = make([]int, s.symbolsPerLine)
		for i := range clusters[y] {
			clusters[y][i] = -1
		}

		row = s.lines.Row(y, row)
		barWidths := row.Runs(barcodeStartOffset, s.lines.Width(), true)
		if len(barWidths) == 0 {
			barWidths = []int{0}
		}
		barWidths[0] += barcodeStartOffset

		// Count bar widths until a symbol width is reached. The last bar of
		// a symbol is always white, so a boundary on a white bar moves on to
		// the following black one.
		cwCount := 1
		cwWidth := 0
		for i := 0; i < len(barWidths) && cwCount < s.symbolsPerLine; i++ {
			cwWidth += barWidths[i]
			if float64(cwWidth) > symbolWidths[cwCount-1] {
				if i%2 == 1 {
					i++
				}
				if i < len(barWidths) {
					cwWidth = barWidths[i]
				}
				cwStarts[cwCount] = i
				cwCount++
			}
		}
		for ; cwCount < s.symbolsPerLine; cwCount++ {
			cwStarts[cwCount] = len(barWidths)
		}

		for i := 0; i < s.symbolsPerLine; i++ {
			cwEnd := len(barWidths)
			if i < s.symbolsPerLine-1 {
				cwEnd = cwStarts[i+1]
			}
			ratios, ok := codewordRatios(barWidths[min(cwStarts[i], cwEnd):cwEnd], symbolWidths[i])
			if !ok {
				continue
			}
			p := s.table.Match(ratios)
			codewords[y][i] = p
			clusters[y][i] = symbol.ClusterNumber(p)
		}
	}
	return codewords, clusters
}

// codewordRatios normalizes the bar widths of one symbol. Symbols with 7 or 9
// bars are recovered: a missing 8th bar takes whatever remains of
// symbolWidth, and a 9th bar is ignored. Anything else is beyond repair.
func codewordRatios(bars []int, symbolWidth float64) (symbol.Ratios, bool) {
	var ratios symbol.Ratios
	if len(bars) < symbol.BarsInCodeword-1 || len(bars) > symbol.BarsInCodeword+1 {
		return ratios, false
	}
	sum := 0
	for _, b := range bars[:min(len(bars), symbol.BarsInCodeword)] {
		sum += b
	}
	if len(bars) == symbol.BarsInCodeword-1 {
		for j, b := range bars {
			ratios[j] = float64(b) / symbolWidth
		}
		ratios[symbol.BarsInCodeword-1] = (symbolWidth - float64(sum)) / symbolWidth
		return ratios, true
	}
	for j := range ratios {
		ratios[j] = float64(bars[j]) / float64(sum)
	}
	return ratios, true
}

// distributeVotes assigns scan lines to logical rows by cluster number and
// tallies their codewords. ok is false when no line could start row 0.
func (s *LinesSampler) distributeVotes(codewords, clusters [][]int) (*voteArena, bool) {
	votes := newVoteArena(s.symbolsPerLine)
	currentRow := 0
	lastCluster := -1

	for y := range codewords {
		var lineVotes [9]int
		counted := false
		for _, c := range clusters[y] {
			if c != -1 {
				lineVotes[c]++
				counted = true
			}
		}
		// Ignore lines where no codeword could be read.
		if !counted {
			continue
		}

		cluster, decisive := lineCluster(lineVotes)
		if !decisive {
			// Too few votes keep the previous cluster. This avoids switching
			// rows on damaged lines between rows.
			cluster = lastCluster
		}
		if lastCluster == -1 {
			// Ignore broken lines at the top of the symbol.
			if cluster != 0 {
				continue
			}
		} else {
			switch cluster {
			case (lastCluster + 3) % 9:
				currentRow++
			case (lastCluster + 6) % 9:
				currentRow += 2
			default:
				cluster = lastCluster
			}
		}
		votes.grow(currentRow + 1)

		for i, c := range clusters[y] {
			switch {
			case c == -1:
			case c == cluster:
				votes.add(currentRow, i, codewords[y][i])
			case c == (cluster+3)%9:
				votes.grow(currentRow + 2)
				votes.add(currentRow+1, i, codewords[y][i])
			case c == (cluster+6)%9 && currentRow > 0:
				votes.add(currentRow-1, i, codewords[y][i])
			}
		}
		lastCluster = cluster
	}
	return votes, lastCluster != -1
}

// lineCluster returns the cluster most codewords of a line agree on.
func lineCluster(votes [9]int) (cluster int, decisive bool) {
	best := 0
	for c, n := range votes {
		switch {
		case n > best:
			best, cluster, decisive = n, c, true
		case n == best && n > 0:
			decisive = false
		}
	}
	return cluster, decisive
}

// insertMissingRows splices empty rows into grid wherever the cluster
// sequence 0, 3, 6, 0, ... has a gap.
func insertMissingRows(grid *CodewordGrid) {
	var insertAt []int
	if grid.Rows() > 0 {
		// The first row must have cluster 0.
		if c := grid.RowCluster(0); c > 0 {
			insertAt = append(insertAt, 0)
			if c > 3 {
				insertAt = append(insertAt, 0)
			}
		}
	}
	for i := 0; i+1 < grid.Rows(); i++ {
		c, next := grid.RowCluster(i), grid.RowCluster(i+1)
		if c == -1 || next == -1 || (c+3)%9 == next {
			continue
		}
		insertAt = append(insertAt, i+1)
		if c == next {
			// Two rows missing.
			insertAt = append(insertAt, i+1)
		}
	}
	for i, at := range insertAt {
		grid.InsertRows(at+i, 1)
	}
}

// decodeRowCount reads the row indicators of every group of three rows. It
// inserts empty groups where the indicated row numbers skip a group, then
// sizes the grid to the voted row count and records the voted EC level.
func (s *LinesSampler) decodeRowCount(grid *CodewordGrid) {
	rowCountVotes := map[int]int{}
	ecLevelVotes := map[int]int{}
	var insertAt []int
	lastRowNumber := -1
	last := grid.Columns() - 1

	for i := 0; i+2 < grid.Rows(); i += 3 {
		var left, right [3]int
		for k := 0; k < 3; k++ {
			left[k] = s.indicator(grid.At(i+k, 0))
			right[k] = s.indicator(grid.At(i+k, last))
		}

		if left[0] != -1 && left[1] != -1 {
			rowCountVotes[(left[0]%30)*3+(left[1]%30)%3]++
			ecLevelVotes[(left[1]%30)/3]++
		}
		if right[1] != -1 && right[2] != -1 {
			rowCountVotes[(right[1]%30)*3+(right[2]%30)%3]++
			ecLevelVotes[(right[2]%30)/3]++
		}

		rowNumberVotes := map[int]int{}
		for _, v := range append(left[:], right[:]...) {
			if v != -1 {
				rowNumberVotes[v/30]++
			}
		}
		rowNumber := lastRowNumber + 1
		if len(rowNumberVotes) > 0 {
			rowNumber, _ = plurality(rowNumberVotes)
		}
		for j := lastRowNumber + 1; j < rowNumber; j++ {
			insertAt = append(insertAt, i, i, i)
		}
		lastRowNumber = rowNumber
	}
	for i, at := range insertAt {
		grid.InsertRows(at+i, 1)
	}

	if len(rowCountVotes) == 0 {
		return
	}
	rowCount, _ := plurality(rowCountVotes)
	grid.Resize(rowCount + 1)
	grid.ECLevel, _ = plurality(ecLevelVotes)
}

// indicator returns the codeword value of a row indicator pattern, or -1.
func (s *LinesSampler) indicator(p int) int {
	if p == 0 {
		return -1
	}
	cw, _, ok := s.table.Codeword(p)
	if !ok {
		return -1
	}
	return cw
}

// voteArena tallies codeword votes per (row, column) cell.
type voteArena struct {
	columns int
	cells   []map[int]int
}

func newVoteArena(columns int) *voteArena {
	a := &voteArena{columns: columns}
	a.grow(1)
	return a
}

func (a *voteArena) rows() int { return len(a.cells) / a.columns }

// grow extends the arena to at least rows rows.
func (a *voteArena) grow(rows int) {
	for len(a.cells) < rows*a.columns {
		a.cells = append(a.cells, map[int]int{})
	}
}

func (a *voteArena) add(r, c, value int) {
	a.cells[r*a.columns+c][value]++
}

func (a *voteArena) at(r, c int) map[int]int {
	return a.cells[r*a.columns+c]
}

// plurality returns the value with the most votes, the smallest such value
// on a tie. decisive is false on a tie or when there are no votes.
func plurality(votes map[int]int) (value int, decisive bool) {
	keys := make([]int, 0, len(votes))
	for k := range votes {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	best := 0
	for _, k := range keys {
		switch n := votes[k]; {
		case n > best:
			best, value, decisive = n, k, true
		case n == best:
			decisive = false
		}
	}
	return value, decisive
}
