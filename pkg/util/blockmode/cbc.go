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

package blockmode

import (
	"yunion.io/x/cryptool/pkg/util/padding"
)

// SCBCMode is cipher block chaining. The first block is XORed with the IV,
// every later block with the ciphertext block before it.
type SCBCMode struct {
	padding padding.IPadding
}

// NewCBC returns a CBC mode; a nil padding selects ISO 7816-4.
func NewCBC(p padding.IPadding) *SCBCMode {
	return &SCBCMode{padding: orDefaultPadding(p)}
}

func (m *SCBCMode) Name() string              { return MODE_CBC }
func (m *SCBCMode) Padding() padding.IPadding { return m.padding }
func (m *SCBCMode) RequiresIV() bool          { return true }

func (m *SCBCMode) Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_CBC, bs, iv); err != nil {
		return nil, err
	}
	buf = m.padding.Pad(bs, buf)
	if err := checkAligned(MODE_CBC, bs, buf); err != nil {
		return nil, err
	}
	for offset := 0; offset < len(buf); offset += bs {
		if offset == 0 {
			xorBlock(buf[:bs], iv)
		} else {
			// the previous ciphertext block is already in place
			xorBlock(buf[offset:offset+bs], buf[offset-bs:offset])
		}
		c.EncryptBlock(buf, offset)
	}
	return buf, nil
}

func (m *SCBCMode) Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_CBC, bs, iv); err != nil {
		return nil, err
	}
	if err := checkAligned(MODE_CBC, bs, buf); err != nil {
		return nil, err
	}
	prev := iv
	for offset := 0; offset < len(buf); offset += bs {
		saved := make([]byte, bs)
		copy(saved, buf[offset:offset+bs])
		c.DecryptBlock(buf, offset)
		xorBlock(buf[offset:offset+bs], prev)
		prev = saved
	}
	return m.padding.Unpad(bs, buf)
}
