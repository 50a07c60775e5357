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

// counterWindow is how many trailing IV bytes form the block counter.
// A carry out of the window is dropped.
const counterWindow = 4

// SCTRMode is counter mode. Decrypt is the same routine as Encrypt.
type SCTRMode struct{}

func NewCTR() *SCTRMode {
	return &SCTRMode{}
}

func (m *SCTRMode) Name() string              { return MODE_CTR }
func (m *SCTRMode) Padding() padding.IPadding { return padding.NoPadding }
func (m *SCTRMode) RequiresIV() bool          { return true }

func (m *SCTRMode) Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	return m.crypt(c, buf, iv)
}

func (m *SCTRMode) Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	return m.crypt(c, buf, iv)
}

func (m *SCTRMode) crypt(c ICipher, buf []byte, iv []byte) ([]byte, error) {
	bs, err := blockByteSize(c)
	if err != nil {
		return nil, err
	}
	if err := checkIV(MODE_CTR, bs, iv); err != nil {
		return nil, err
	}
	counter := make([]byte, bs)
	copy(counter, iv)
	keystream := make([]byte, bs)
	for i := 0; i < len(buf); {
		copy(keystream, counter)
		c.EncryptBlock(keystream, 0)
		for j := 0; i < len(buf) && j < bs; j, i = j+1, i+1 {
			buf[i] ^= keystream[j]
		}
		incCounter(counter)
	}
	return buf, nil
}

// incCounter adds one to the big-endian integer held in the last
// counterWindow bytes of counter.
func incCounter(counter []byte) {
	window := counterWindow
	if window > len(counter) {
		window = len(counter)
	}
	for k := len(counter) - 1; k >= len(counter)-window; k-- {
		counter[k]++
		if counter[k] != 0 {
			return
		}
	}
}
