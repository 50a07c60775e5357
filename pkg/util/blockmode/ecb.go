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

// SECBMode is electronic code book: every block goes through the cipher on
// its own, so equal plaintext blocks give equal ciphertext blocks.
type SECBMode struct {
	padding padding.IPadding
}

// NewECB returns an ECB mode; a nil padding selects ISO 7816-4.
func NewECB(p padding.IPadding) *SECBMode {
	return &SECBMode{padding: orDefaultPadding(p)}
}

func (m *SECBMode) Name() string              { return MODE_ECB }
func (m *SECBMode) Padding() padding.IPadding { return m.padding }
func (m *SECBMode) RequiresIV() bool          { return false }

// Encrypt ignores iv.
func (m *SECBMode) Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	buf = m.padding.Pad(bs, buf)
	if err := checkAligned(MODE_ECB, bs, buf); err != nil {
		return nil, err
	}
	for offset := 0; offset < len(buf); offset += bs {
		c.EncryptBlock(buf, offset)
	}
	return buf, nil
}

// Decrypt ignores iv.
func (m *SECBMode) Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkAligned(MODE_ECB, bs, buf); err != nil {
		return nil, err
	}
	for offset := 0; offset < len(buf); offset += bs {
		c.DecryptBlock(buf, offset)
	}
	return m.padding.Unpad(bs, buf)
}
