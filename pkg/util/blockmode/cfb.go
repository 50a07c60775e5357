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

// SCFBMode is full-block cipher feedback. Each ciphertext byte is fed back
// into the keystream slot it was produced from, so the next keystream block
// is the encryption of the previous ciphertext block.
type SCFBMode struct{}

func NewCFB() *SCFBMode {
	return &SCFBMode{}
}

func (m *SCFBMode) Name() string              { return MODE_CFB }
func (m *SCFBMode) Padding() padding.IPadding { return padding.NoPadding }
func (m *SCFBMode) RequiresIV() bool          { return true }

func (m *SCFBMode) Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_CFB, bs, iv); err != nil {
		return nil, err
	}
	keystream := make([]byte, bs)
	copy(keystream, iv)
	for i := range buf {
		j := i % bs
		if j == 0 {
			c.EncryptBlock(keystream, 0)
		}
		buf[i] ^= keystream[j]
		keystream[j] = buf[i]
	}
	return buf, nil
}

func (m *SCFBMode) Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_CFB, bs, iv); err != nil {
		return nil, err
	}
	keystream := make([]byte, bs)
	copy(keystream, iv)
	for i := range buf {
		j := i % bs
		if j == 0 {
			c.EncryptBlock(keystream, 0)
		}
		b := buf[i]
		buf[i] ^= keystream[j]
		keystream[j] = b
	}
	return buf, nil
}
