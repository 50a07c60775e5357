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
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"strings"

	"github.com/tjfoc/gmsm/sm4"
	"golang.org/x/crypto/blowfish"
	"golang.org/x/crypto/cast5"
	"golang.org/x/crypto/tea"
	"golang.org/x/crypto/twofish"
	"golang.org/x/crypto/xtea"
	"golang.org/x/sys/cpu"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/choices"
)

const (
	CIPHER_AES      = "aes"
	CIPHER_SM4      = "sm4"
	CIPHER_DES      = "des"
	CIPHER_3DES     = "3des"
	CIPHER_BLOWFISH = "blowfish"
	CIPHER_TWOFISH  = "twofish"
	CIPHER_CAST5    = "cast5"
	CIPHER_XTEA     = "xtea"
	CIPHER_TEA      = "tea"
)

type SCipherSpec struct {
	Name      string
	BlockSize int
	// KeySizes lists the accepted key lengths. When empty any length in
	// [MinKeySize, MaxKeySize] is accepted.
	KeySizes       []int
	MinKeySize     int
	MaxKeySize     int
	DefaultKeySize int
	Library        string
	// HardwareAccelerated reports whether the implementation uses CPU
	// instructions for the cipher on this host.
	HardwareAccelerated bool

	newBlock func(key []byte) (cipher.Block, error)
}

func (s *SCipherSpec) ValidKeySize(n int) bool {
	if len(s.KeySizes) == 0 {
		return n >= s.MinKeySize && n <= s.MaxKeySize
	}
	for _, size := range s.KeySizes {
		if size == n {
			return true
		}
	}
	return false
}

var cipherSpecs = map[string]*SCipherSpec{
	CIPHER_AES: {
		Name:           CIPHER_AES,
		BlockSize:      aes.BlockSize,
		KeySizes:       []int{16, 24, 32},
		DefaultKeySize: 32,
		Library:        "crypto/aes",
		newBlock:       aes.NewCipher,

		HardwareAccelerated: cpu.X86.HasAES || cpu.ARM64.HasAES || cpu.S390X.HasAES,
	},
	CIPHER_SM4: {
		Name:           CIPHER_SM4,
		BlockSize:      sm4.BlockSize,
		KeySizes:       []int{16},
		DefaultKeySize: 16,
		Library:        "github.com/tjfoc/gmsm/sm4",
		newBlock:       sm4.NewCipher,
	},
	CIPHER_DES: {
		Name:           CIPHER_DES,
		BlockSize:      des.BlockSize,
		KeySizes:       []int{8},
		DefaultKeySize: 8,
		Library:        "crypto/des",
		newBlock:       des.NewCipher,
	},
	CIPHER_3DES: {
		Name:           CIPHER_3DES,
		BlockSize:      des.BlockSize,
		KeySizes:       []int{24},
		DefaultKeySize: 24,
		Library:        "crypto/des",
		newBlock:       des.NewTripleDESCipher,
	},
	CIPHER_BLOWFISH: {
		Name:           CIPHER_BLOWFISH,
		BlockSize:      blowfish.BlockSize,
		MinKeySize:     4,
		MaxKeySize:     56,
		DefaultKeySize: 16,
		Library:        "golang.org/x/crypto/blowfish",
		newBlock: func(key []byte) (cipher.Block, error) {
			return blowfish.NewCipher(key)
		},
	},
	CIPHER_TWOFISH: {
		Name:           CIPHER_TWOFISH,
		BlockSize:      twofish.BlockSize,
		KeySizes:       []int{16, 24, 32},
		DefaultKeySize: 32,
		Library:        "golang.org/x/crypto/twofish",
		newBlock: func(key []byte) (cipher.Block, error) {
			return twofish.NewCipher(key)
		},
	},
	CIPHER_CAST5: {
		Name:           CIPHER_CAST5,
		BlockSize:      cast5.BlockSize,
		KeySizes:       []int{cast5.KeySize},
		DefaultKeySize: cast5.KeySize,
		Library:        "golang.org/x/crypto/cast5",
		newBlock: func(key []byte) (cipher.Block, error) {
			return cast5.NewCipher(key)
		},
	},
	CIPHER_XTEA: {
		Name:           CIPHER_XTEA,
		BlockSize:      xtea.BlockSize,
		KeySizes:       []int{16},
		DefaultKeySize: 16,
		Library:        "golang.org/x/crypto/xtea",
		newBlock: func(key []byte) (cipher.Block, error) {
			return xtea.NewCipher(key)
		},
	},
	CIPHER_TEA: {
		Name:           CIPHER_TEA,
		BlockSize:      tea.BlockSize,
		KeySizes:       []int{tea.KeySize},
		DefaultKeySize: tea.KeySize,
		Library:        "golang.org/x/crypto/tea",
		newBlock:       tea.NewCipher,
	},
}

var CipherChoices = func() choices.Choices {
	cs := choices.NewChoices()
	for name := range cipherSpecs {
		cs[name] = choices.Empty{}
	}
	return cs
}()

func GetCipherSpec(name string) (*SCipherSpec, error) {
	spec, ok := cipherSpecs[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCipher, "%s, expect one of %s", name, CipherChoices)
	}
	return spec, nil
}

func CipherNames() []string {
	return CipherChoices.Keys()
}

// NewCipher keys the named cipher.
func NewCipher(name string, key []byte) (*SBlockCipher, error) {
	spec, err := GetCipherSpec(name)
	if err != nil {
		return nil, err
	}
	if !spec.ValidKeySize(len(key)) {
		return nil, errors.Wrapf(ErrInvalidKeySize, "%s does not accept a %d bytes key", spec.Name, len(key))
	}
	b, err := spec.newBlock(key)
	if err != nil {
		return nil, errors.Wrapf(err, "new %s cipher", spec.Name)
	}
	return NewBlockCipher(spec.Name, b)
}
