package kdtree

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
)

// Shape of a flat index, recovered by scanning its block stream.
type IndexStats struct {
	Words        int
	InnerBlocks  int
	DataBlocks   int
	IndexEntries int
}

// Scan the block stream and tally its shape. Blocks are written densely, so
// a linear walk visits each exactly once. A stream that cannot be walked to
// its exact end is corrupt.
func (f FlatIndex) Stats() (IndexStats, error) {
	stats := IndexStats{Words: len(f)}

	off := int32(0)
	for off < int32(len(f)) {
		if off+offCount > int32(len(f)) {
			return stats, ErrCorruptIndex
		}
		if f[off+offMark] >= 0 {
			stats.InnerBlocks++
			off += innerWords
			continue
		}
		n := f[off+offCount]
		if n < 0 || off+offIndices+n > int32(len(f)) {
			return stats, ErrCorruptIndex
		}
		stats.DataBlocks++
		stats.IndexEntries += int(n)
		off += offIndices + n
	}
	if off != int32(len(f)) {
		return stats, ErrCorruptIndex
	}

	return stats, nil
}

// Build a tabular representation of build and index statistics.
func FormatStats(build BuildStats, index IndexStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Primitives", fmt.Sprintf("%d", build.Primitives)})
	table.Append([]string{"Tree inner nodes", fmt.Sprintf("%d", build.Nodes)})
	table.Append([]string{"Tree leafs", fmt.Sprintf("%d", build.Leafs)})
	table.Append([]string{"Tree max depth", fmt.Sprintf("%d", build.MaxDepth)})
	table.Append([]string{"Flat inner blocks", fmt.Sprintf("%d", index.InnerBlocks)})
	table.Append([]string{"Flat data blocks", fmt.Sprintf("%d", index.DataBlocks)})
	table.Append([]string{"Flat index entries", fmt.Sprintf("%d", index.IndexEntries)})
	table.Append([]string{"Flat size", fmtSize(index.Words * 4)})
	table.Render()
	return buf.String()
}

// Format a byte count with the appropriate byte/kb/mb unit.
func fmtSize(totalBytes int) string {
	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", totalBytes)
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", float32(totalBytes)/1e3)
	}
	return fmt.Sprintf("%5.1f mb", float32(totalBytes)/1e6)
}
