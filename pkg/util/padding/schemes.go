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

package padding

import (
	"crypto/rand"

	"yunion.io/x/pkg/errors"
)

// SNoPadding leaves the buffer untouched, for stream modes.
type SNoPadding struct{}

func (p SNoPadding) Name() string { return PADDING_NONE }

func (p SNoPadding) Pad(blockSize int, buf []byte) []byte { return buf }

func (p SNoPadding) Unpad(blockSize int, buf []byte) ([]byte, error) { return buf, nil }

// SZeroPadding completes a partial final block with 0x00 bytes.
// Unpad cannot tell padding from trailing zero bytes of the plaintext.
type SZeroPadding struct{}

func (p SZeroPadding) Name() string { return PADDING_ZERO }

func (p SZeroPadding) Pad(blockSize int, buf []byte) []byte {
	rem := len(buf) % blockSize
	if rem == 0 {
		return buf
	}
	return appendBytes(buf, 0x00, blockSize-rem)
}

func (p SZeroPadding) Unpad(blockSize int, buf []byte) ([]byte, error) {
	end := len(buf)
	for end > 0 && buf[end-1] == 0x00 {
		end--
	}
	return buf[:end], nil
}

// SISO7816Padding is ISO/IEC 7816-4: a 0x80 marker followed by 0x00 bytes.
type SISO7816Padding struct{}

func (p SISO7816Padding) Name() string { return PADDING_ISO7816 }

func (p SISO7816Padding) Pad(blockSize int, buf []byte) []byte {
	reqd := RequiredPadding(blockSize, len(buf))
	buf = append(buf, iso7816Marker)
	return appendBytes(buf, iso7816FillerByte, reqd-1)
}

func (p SISO7816Padding) Unpad(blockSize int, buf []byte) ([]byte, error) {
	for n := 1; n <= blockSize && n <= len(buf); n++ {
		b := buf[len(buf)-n]
		if b == iso7816Marker {
			return buf[:len(buf)-n], nil
		}
		if b != iso7816FillerByte {
			return nil, errors.Wrapf(ErrPaddingByteMismatch, "ISO-7816 padding byte must be 0, not 0x%02x, %s", b, wrongKeyHint)
		}
	}
	return nil, errors.Wrapf(ErrPaddingNotFound, "ISO-7816 padded beyond cipher block size, %s", wrongKeyHint)
}

// SAnsiX923Padding is ANSI X.923: 0x00 bytes then the padding length.
type SAnsiX923Padding struct{}

func (p SAnsiX923Padding) Name() string { return PADDING_ANSIX923 }

func (p SAnsiX923Padding) Pad(blockSize int, buf []byte) []byte {
	reqd := RequiredPadding(blockSize, len(buf))
	buf = appendBytes(buf, 0x00, reqd-1)
	return append(buf, byte(reqd))
}

func (p SAnsiX923Padding) Unpad(blockSize int, buf []byte) ([]byte, error) {
	return unpadLength(blockSize, buf, "ANSI X.923", true, 0x00)
}

// SISO10126Padding is ISO 10126: random bytes then the padding length.
// The random filler is never verified.
type SISO10126Padding struct{}

func (p SISO10126Padding) Name() string { return PADDING_ISO10126 }

func (p SISO10126Padding) Pad(blockSize int, buf []byte) []byte {
	reqd := RequiredPadding(blockSize, len(buf))
	start := len(buf)
	buf = appendBytes(buf, 0x00, reqd)
	// crypto/rand.Read does not fail on supported platforms
	rand.Read(buf[start : len(buf)-1])
	buf[len(buf)-1] = byte(reqd)
	return buf
}

func (p SISO10126Padding) Unpad(blockSize int, buf []byte) ([]byte, error) {
	return unpadLength(blockSize, buf, "ISO 10126", false, 0)
}

// SPKCS7Padding is PKCS#7 (RFC 5652): N bytes each of value N.
type SPKCS7Padding struct{}

func (p SPKCS7Padding) Name() string { return PADDING_PKCS7 }

func (p SPKCS7Padding) Pad(blockSize int, buf []byte) []byte {
	reqd := RequiredPadding(blockSize, len(buf))
	return appendBytes(buf, byte(reqd), reqd)
}

func (p SPKCS7Padding) Unpad(blockSize int, buf []byte) ([]byte, error) {
	var fill byte
	if len(buf) > 0 {
		fill = buf[len(buf)-1]
	}
	return unpadLength(blockSize, buf, "PKCS 7", true, fill)
}
