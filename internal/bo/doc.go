// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bo resolves byte orders for re-encoded frame headers.
//
// The native order is detected once at init time; names used by configuration
// files map onto the encoding/binary singletons so callers can compare by value.
package bo
