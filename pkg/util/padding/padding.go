// Copyright 2019 Yunion
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package padding extends a message to a whole number of cipher blocks
// before block-mode encryption and strips the extension after decryption.
//
// Every scheme works on the caller's slice: Pad appends to it and Unpad
// reslices it, so no new buffer is allocated when the capacity allows.
package padding

import (
	"yunion.io/x/pkg/errors"
)

const (
	ErrPaddingUnderflow    = errors.Error("PaddingUnderflowError")
	ErrPaddingOverflow     = errors.Error("PaddingOverflowError")
	ErrPaddingByteMismatch = errors.Error("PaddingByteMismatchError")
	ErrPaddingNotFound     = errors.Error("PaddingNotFoundError")
	ErrUnknownPadding      = errors.Error("UnknownPaddingError")
)

const wrongKeyHint = "wrong cipher specification or key used?"

const (
	PADDING_NONE     = "none"
	PADDING_ZERO     = "zero"
	PADDING_ISO7816  = "iso7816"
	PADDING_ANSIX923 = "ansix923"
	PADDING_ISO10126 = "iso10126"
	PADDING_PKCS7    = "pkcs7"
	PADDING_DEFAULT  = PADDING_ISO7816
)

// MAX_BLOCK_SIZE bounds blockSize for every scheme: the length byte of
// X.923, ISO 10126 and PKCS#7 cannot count past 255.
const MAX_BLOCK_SIZE = 255

const (
	iso7816Marker     = byte(0x80)
	iso7816FillerByte = byte(0x00)
)

// IPadding implementations require 0 < blockSize <= MAX_BLOCK_SIZE; callers
// validate it, as blockmode does before padding.
type IPadding interface {
	Name() string
	// Pad returns buf extended to a multiple of blockSize.
	Pad(blockSize int, buf []byte) []byte
	// Unpad returns buf with the padding removed, or an error when the
	// trailing bytes are not a conforming padding.
	Unpad(blockSize int, buf []byte) ([]byte, error)
}

// RequiredPadding is the number of bytes a length-suffixed scheme appends,
// always in [1, blockSize].
func RequiredPadding(blockSize int, length int) int {
	return blockSize - length%blockSize
}

func appendBytes(buf []byte, b byte, count int) []byte {
	for i := 0; i < count; i++ {
		buf = append(buf, b)
	}
	return buf
}

// unpadLength pops the trailing length byte and the fill bytes it covers.
// When verify is set every fill byte must equal fill.
func unpadLength(blockSize int, buf []byte, alg string, verify bool, fill byte) ([]byte, error) {
	if len(buf) == 0 {
		return nil, errors.Wrapf(ErrPaddingUnderflow, "empty buffer has no %s padding, %s", alg, wrongKeyHint)
	}
	pad := int(buf[len(buf)-1])
	if pad == 0 {
		return nil, errors.Wrapf(ErrPaddingUnderflow, "invalid zero-length padding specified for %s, %s", alg, wrongKeyHint)
	}
	if pad > blockSize {
		return nil, errors.Wrapf(ErrPaddingOverflow, "invalid padding length of %d specified for %s, %s", pad, alg, wrongKeyHint)
	}
	if pad > len(buf) {
		return nil, errors.Wrapf(ErrPaddingOverflow, "padding length %d exceeds buffer length %d for %s, %s", pad, len(buf), alg, wrongKeyHint)
	}
	if verify {
		for i := len(buf) - pad; i < len(buf)-1; i++ {
			if buf[i] != fill {
				return nil, errors.Wrapf(ErrPaddingByteMismatch, "invalid padding byte of 0x%02x specified for %s, %s", buf[i], alg, wrongKeyHint)
			}
		}
	}
	return buf[:len(buf)-pad], nil
}
