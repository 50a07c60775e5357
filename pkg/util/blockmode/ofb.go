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

// SOFBMode is output feedback: the keystream is the cipher applied to its
// own previous output, independent of the data.
type SOFBMode struct{}

func NewOFB() *SOFBMode {
	return &SOFBMode{}
}

func (m *SOFBMode) Name() string              { return MODE_OFB }
func (m *SOFBMode) Padding() padding.IPadding { return padding.NoPadding }
func (m *SOFBMode) RequiresIV() bool          { return true }

func (m *SOFBMode) Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	return m.crypt(c, buf, iv)
}

func (m *SOFBMode) Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	return m.crypt(c, buf, iv)
}

func (m *SOFBMode) crypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_OFB, bs, iv); err != nil {
		return nil, err
	}
	keystream := make([]byte, bs)
	copy(keystream, iv)
	for i := range buf {
		if i%bs == 0 {
			c.EncryptBlock(keystream, 0)
		}
		buf[i] ^= keystream[i%bs]
	}
	return buf, nil
}
