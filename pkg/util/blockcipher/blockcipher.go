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

package blockcipher

import (
	"crypto/cipher"

	"yunion.io/x/pkg/errors"
)

const (
	ErrUnknownCipher        = errors.Error("UnknownCipherError")
	ErrInvalidKeySize       = errors.Error("InvalidKeySizeError")
	ErrUnsupportedBlockSize = errors.Error("UnsupportedBlockSizeError")
)

// SBlockCipher exposes a crypto/cipher.Block through the word sized,
// offset addressed interface the block modes consume.
type SBlockCipher struct {
	name      string
	block     cipher.Block
	blockSize int
}

// NewBlockCipher wraps b. The block size must be a whole number of 32-bit
// words.
func NewBlockCipher(name string, b cipher.Block) (*SBlockCipher, error) {
	bs := b.BlockSize()
	if bs <= 0 || bs%4 != 0 {
		return nil, errors.Wrapf(ErrUnsupportedBlockSize, "%s block size %d is not a multiple of 4", name, bs)
	}
	return &SBlockCipher{
		name:      name,
		block:     b,
		blockSize: bs,
	}, nil
}

func (c *SBlockCipher) Name() string {
	return c.name
}

func (c *SBlockCipher) BlockSizeWords() int {
	return c.blockSize / 4
}

func (c *SBlockCipher) EncryptBlock(buf []byte, offset int) {
	blk := buf[offset : offset+c.blockSize]
	c.block.Encrypt(blk, blk)
}

func (c *SBlockCipher) DecryptBlock(buf []byte, offset int) {
	blk := buf[offset : offset+c.blockSize]
	c.block.Decrypt(blk, blk)
}
