// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bo

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// native is the encoding/binary singleton matching binary.NativeEndian, so that
// FrameWriter can compare it against binary.LittleEndian.
var native binary.ByteOrder = binary.BigEndian

func init() {
	if binary.NativeEndian.Uint16([]byte{0x01, 0x02}) != 0x0102 {
		native = binary.LittleEndian
	}
}

// Native returns the machine's native byte order.
func Native() binary.ByteOrder { return native }

// Lookup maps "big", "little" or "native" (and the empty string, meaning big)
// to a byte order.
func Lookup(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "big", "be", "network":
		return binary.BigEndian, nil
	case "little", "le":
		return binary.LittleEndian, nil
	case "native", "local":
		return native, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q", name)
	}
}
