// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lineframer

const hexDigits = "0123456789ABCDEF"

// AppendHex appends a blank and the two-digit uppercase hex form of b to dst.
func AppendHex(dst []byte, b byte) []byte {
	return append(dst, ' ', hexDigits[b>>4], hexDigits[b&0x0F])
}

// traceByte writes " HH" for b; with TraceDetail it is " CC: HH\n" where CC is
// the cursor. Trace sink errors never affect framing.
func (f *Framer) traceByte(b byte) {
	p := f.hex[:0]
	detail := f.flags.Has(TraceDetail)
	if detail {
		p = AppendHex(p, byte(f.cursor))
		p = append(p, ':')
	}
	p = AppendHex(p, b)
	if detail {
		p = append(p, lf)
	}
	_, _ = f.trace.Write(p)
}
