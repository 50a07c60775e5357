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

// Package blockmode turns a single-block cipher into a transform over
// messages of any length.
//
// ECB and CBC pad the message to whole blocks before encryption and strip
// the padding after decryption. CFB, OFB and CTR are byte oriented and
// always run without padding. All modes rewrite the caller's buffer in
// place; the IV is read but never written.
package blockmode

import (
	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/padding"
)

const (
	ErrInvalidIV        = errors.Error("InvalidIVError")
	ErrUnalignedBlocks  = errors.Error("UnalignedBlocksError")
	ErrInvalidBlockSize = errors.Error("InvalidBlockSizeError")
	ErrUnknownMode      = errors.Error("UnknownModeError")
)

// MAX_BLOCK_SIZE is the largest block a one byte padding length can cover.
const MAX_BLOCK_SIZE = padding.MAX_BLOCK_SIZE

const (
	MODE_ECB = "ecb"
	MODE_CBC = "cbc"
	MODE_CFB = "cfb"
	MODE_OFB = "ofb"
	MODE_CTR = "ctr"
)

// ICipher is the block primitive a mode drives. Both block operations
// transform buf[offset:offset+BlockByteSize] in place and must not touch
// any other byte of buf.
type ICipher interface {
	BlockSizeWords() int
	EncryptBlock(buf []byte, offset int)
	DecryptBlock(buf []byte, offset int)
}

type IBlockMode interface {
	Name() string
	Padding() padding.IPadding
	RequiresIV() bool

	// Encrypt pads buf and encrypts it in place, returning the ciphertext
	// slice, which shares buf's backing array when its capacity allows.
	Encrypt(c ICipher, buf []byte, iv []byte) ([]byte, error)
	// Decrypt decrypts buf in place and returns the unpadded plaintext.
	Decrypt(c ICipher, buf []byte, iv []byte) ([]byte, error)
}

func BlockByteSize(c ICipher) int {
	return c.BlockSizeWords() * 4
}

func blockByteSize(c ICipher) (int, error) {
	bs := BlockByteSize(c)
	if bs <= 0 || bs > MAX_BLOCK_SIZE {
		return 0, errors.Wrapf(ErrInvalidBlockSize, "block size %d words out of range [1, %d] bytes", c.BlockSizeWords(), MAX_BLOCK_SIZE)
	}
	return bs, nil
}

func checkIV(mode string, bs int, iv []byte) error {
	if len(iv) != bs {
		return errors.Wrapf(ErrInvalidIV, "%s requires a %d bytes IV, got %d", mode, bs, len(iv))
	}
	return nil
}

func checkAligned(mode string, bs int, buf []byte) error {
	if len(buf)%bs != 0 {
		return errors.Wrapf(ErrUnalignedBlocks, "%s input of %d bytes is not a multiple of block size %d", mode, len(buf), bs)
	}
	return nil
}

func xorBlock(dst []byte, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

func orDefaultPadding(p padding.IPadding) padding.IPadding {
	if p == nil {
		return padding.ISO7816Padding
	}
	return p
}
