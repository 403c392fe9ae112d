// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build unix && !linux

package tty

import "errors"

func makeRaw(fd, baud int) error {
	return errors.ErrUnsupported
}
