package tui

import "strings"

// byteOffset converts a logical line index and rune column into a byte
// offset into content. Out-of-range positions clamp to the nearest valid
// offset so cursor math never indexes past the document.
func byteOffset(content string, line, col int) int {
	if line < 0 {
		return 0
	}

	offset := 0
	rest := content
	for line > 0 {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return offset + len(rest)
		}
		offset += idx + 1
		rest = rest[idx+1:]
		line--
	}

	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	for i := range rest {
		if col <= 0 {
			return offset + i
		}
		col--
	}
	return offset + len(rest)
}

// lineSpan returns the half-open byte range of the given logical line,
// excluding the trailing newline.
func lineSpan(content string, line int) (start, end int) {
	if line < 0 {
		return 0, 0
	}

	offset := 0
	rest := content
	for line > 0 {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return offset + len(rest), offset + len(rest)
		}
		offset += idx + 1
		rest = rest[idx+1:]
		line--
	}

	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		return offset, offset + idx
	}
	return offset, offset + len(rest)
}
