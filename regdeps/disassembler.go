package regdeps

import "fmt"

// Disassemble formats the bytes of buf[cur:next] as up to two lines of hex,
// each holding two 4-byte little-endian words, and appends the result to
// out. The first line ends with a space; when the span is longer than 8
// bytes, a line break follows it and the second line ends with a newline.
// It returns the number of trailing bytes left unprinted after the
// first line (0, 4, or 8), mirroring the C7 contract in spec.md §4.4. No
// structural decoding happens here: category names, flag letters, and
// register ids are the responsibility of a higher-level pretty-printer (see
// package tools) built on top of Decode.
func Disassemble(out []byte, buf []byte, cur, next int) ([]byte, int) {
	span := next - cur
	region := buf[cur:next]

	if span >= 4 {
		out = appendWord(out, region[0:4])
	}
	if span >= 8 {
		out = appendWord(out, region[4:8])
	}
	out = append(out, ' ')

	extra := span - 8
	if extra < 0 {
		extra = 0
	}

	if extra > 0 {
		out = append(out, '\n')
		out = appendWord(out, region[8:12])
		if extra > 4 {
			out = appendWord(out, region[12:16])
		}
		out = append(out, '\n')
	}

	return out, extra
}

func appendWord(out []byte, word []byte) []byte {
	if len(out) > 0 {
		last := out[len(out)-1]
		if last != '\n' {
			out = append(out, ' ')
		}
	}
	return append(out, []byte(fmt.Sprintf("%02x%02x%02x%02x", word[0], word[1], word[2], word[3]))...)
}

// DisassembleString is a convenience wrapper returning the formatted output
// as a string rather than appending to a caller buffer.
func DisassembleString(buf []byte, cur, next int) string {
	out, _ := Disassemble(nil, buf, cur, next)
	return string(out)
}
