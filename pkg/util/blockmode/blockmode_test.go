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
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"strings"
	"testing"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/padding"
)

// NIST SP 800-38A, F.1 - F.5, AES-128
const (
	nistKey       = "2b7e151628aed2a6abf7158809cf4f3c"
	nistIV        = "000102030405060708090a0b0c0d0e0f"
	nistCounter   = "f0f1f2f3f4f5f6f7f8f9fafbfcfdfeff"
	nistPlaintext = "6bc1bee22e409f96e93d7e117393172a" +
		"ae2d8a571e03ac9c9eb76fac45af8e51" +
		"30c81c46a35ce411e5fbc1191a0a52ef" +
		"f69f2445df4f9b17ad2b417be66c3710"
)

func mustHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("decode %s: %s", s, err)
	}
	return b
}

func newAES(t *testing.T, key []byte) *blockcipher.SBlockCipher {
	c, err := blockcipher.NewCipher(blockcipher.CIPHER_AES, key)
	if err != nil {
		t.Fatalf("new aes cipher: %s", err)
	}
	return c
}

func message(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i*7 + 3)
	}
	return buf
}

func TestNISTVectors(t *testing.T) {
	tests := []struct {
		name string
		mode IBlockMode
		iv   string
		want string
	}{
		{
			name: "ECB-AES128",
			mode: NewECB(padding.NoPadding),
			iv:   "",
			want: "3ad77bb40d7a3660a89ecaf32466ef97" +
				"f5d3d58503b9699de785895a96fdbaaf" +
				"43b1cd7f598ece23881b00e3ed030688" +
				"7b0c785e27e8ad3f8223207104725dd4",
		},
		{
			name: "CBC-AES128",
			mode: NewCBC(padding.NoPadding),
			iv:   nistIV,
			want: "7649abac8119b246cee98e9b12e9197d" +
				"5086cb9b507219ee95db113a917678b2" +
				"73bed6b8e3c1743b7116e69e22229516" +
				"3ff1caa1681fac09120eca307586e1a7",
		},
		{
			name: "CFB128-AES128",
			mode: NewCFB(),
			iv:   nistIV,
			want: "3b3fd92eb72dad20333449f8e83cfb4a" +
				"c8a64537a0b3a93fcde3cdad9f1ce58b" +
				"26751f67a3cbb140b1808cf187a4f4df" +
				"c04b05357c5d1c0eeac4c66f9ff7f2e6",
		},
		{
			name: "OFB-AES128",
			mode: NewOFB(),
			iv:   nistIV,
			want: "3b3fd92eb72dad20333449f8e83cfb4a" +
				"7789508d16918f03f53c52dac54ed825" +
				"9740051e9c5fecf64344f7a82260edcc" +
				"304c6528f659c77866a510d9c1d6ae5e",
		},
		{
			name: "CTR-AES128",
			mode: NewCTR(),
			iv:   nistCounter,
			want: "874d6191b620e3261bef6864990db6ce" +
				"9806f66b7970fdff8617187bb9fffdff" +
				"5ae4df3edbd5d35e5b4f09020db03eab" +
				"1e031dda2fbe03d1792170a0f3009cee",
		},
	}
	c := newAES(t, mustHex(t, nistKey))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			iv := mustHex(t, tt.iv)
			ct, err := tt.mode.Encrypt(c, mustHex(t, nistPlaintext), iv)
			if err != nil {
				t.Fatalf("Encrypt() error %s", err)
			}
			if got := hex.EncodeToString(ct); got != tt.want {
				t.Errorf("Encrypt() = %s, want %s", got, tt.want)
			}
			pt, err := tt.mode.Decrypt(c, ct, iv)
			if err != nil {
				t.Fatalf("Decrypt() error %s", err)
			}
			if got := hex.EncodeToString(pt); got != nistPlaintext {
				t.Errorf("Decrypt() = %s, want %s", got, nistPlaintext)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	ciphers := map[string][]byte{
		blockcipher.CIPHER_AES:      message(32),
		blockcipher.CIPHER_BLOWFISH: message(16),
	}
	for cname, key := range ciphers {
		c, err := blockcipher.NewCipher(cname, key)
		if err != nil {
			t.Fatalf("NewCipher %s: %s", cname, err)
		}
		bs := BlockByteSize(c)
		iv := message(bs)
		for _, mname := range ModeNames() {
			pnames := []string{padding.PADDING_NONE}
			if !IsStreamMode(mname) {
				pnames = []string{
					padding.PADDING_ISO7816,
					padding.PADDING_ANSIX923,
					padding.PADDING_ISO10126,
					padding.PADDING_PKCS7,
				}
			}
			for _, pname := range pnames {
				p, _ := padding.GetPadding(pname)
				mode, err := GetMode(mname, p)
				if err != nil {
					t.Fatalf("GetMode %s: %s", mname, err)
				}
				for l := 0; l <= 4*bs; l++ {
					src := message(l)
					ct, err := mode.Encrypt(c, append([]byte{}, src...), iv)
					if err != nil {
						t.Fatalf("%s/%s/%s encrypt %d bytes: %s", cname, mname, pname, l, err)
					}
					if IsStreamMode(mname) && len(ct) != l {
						t.Errorf("%s/%s stream mode changed length %d -> %d", cname, mname, l, len(ct))
					}
					pt, err := mode.Decrypt(c, ct, iv)
					if err != nil {
						t.Fatalf("%s/%s/%s decrypt %d bytes: %s", cname, mname, pname, l, err)
					}
					if !bytes.Equal(pt, src) {
						t.Errorf("%s/%s/%s round trip of %d bytes mismatch", cname, mname, pname, l)
					}
				}
			}
		}
	}
}

func TestStdlibCompatible(t *testing.T) {
	key := message(16)
	c := newAES(t, key)
	block, _ := aes.NewCipher(key)
	iv := message(16)
	// keep the counter far from the end of its 4 bytes window
	iv[12] = 0

	src := message(16*5 + 7)
	aligned := src[:16*5]

	want := make([]byte, len(aligned))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(want, aligned)
	got, _ := NewCBC(padding.NoPadding).Encrypt(c, append([]byte{}, aligned...), iv)
	if !bytes.Equal(got, want) {
		t.Errorf("cbc mismatch %x != %x", got, want)
	}

	streams := []struct {
		name   string
		mode   IBlockMode
		stream cipher.Stream
	}{
		{"cfb", NewCFB(), cipher.NewCFBEncrypter(block, iv)},
		{"ofb", NewOFB(), cipher.NewOFB(block, iv)},
		{"ctr", NewCTR(), cipher.NewCTR(block, iv)},
	}
	for _, s := range streams {
		want := make([]byte, len(src))
		s.stream.XORKeyStream(want, src)
		got, err := s.mode.Encrypt(c, append([]byte{}, src...), iv)
		if err != nil {
			t.Fatalf("%s: %s", s.name, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s mismatch %x != %x", s.name, got, want)
		}
	}
}

func TestCTRCarry(t *testing.T) {
	c := newAES(t, message(16))
	iv := message(16)
	iv[15] = 0xff

	ct, err := NewCTR().Encrypt(c, make([]byte, 32), iv)
	if err != nil {
		t.Fatalf("Encrypt: %s", err)
	}

	first := append([]byte{}, iv...)
	c.EncryptBlock(first, 0)
	second := append([]byte{}, iv...)
	second[15] = 0x00
	second[14]++
	c.EncryptBlock(second, 0)

	if !bytes.Equal(ct[:16], first) {
		t.Errorf("block 1 keystream %x != %x", ct[:16], first)
	}
	if !bytes.Equal(ct[16:], second) {
		t.Errorf("block 2 keystream %x != %x, carry not applied", ct[16:], second)
	}
	if iv[15] != 0xff {
		t.Errorf("caller IV mutated")
	}
}

func TestIncCounterWindow(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no carry", "000000000000000000000000000000fe", "000000000000000000000000000000ff"},
		{"one carry", "000000000000000000000000000000ff", "00000000000000000000000000000100"},
		{"three carries", "00000000000000000000000000ffffff", "00000000000000000000000001000000"},
		{"window overflow", "000000000000000000000012ffffffff", "00000000000000000000001200000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := mustHex(t, tt.in)
			incCounter(counter)
			if got := hex.EncodeToString(counter); got != tt.want {
				t.Errorf("incCounter(%s) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestCBCErrorPropagation(t *testing.T) {
	c := newAES(t, message(16))
	iv := message(16)
	mode := NewCBC(padding.NoPadding)
	src := message(16 * 5)
	for k := 1; k < 4; k++ {
		ct, err := mode.Encrypt(c, append([]byte{}, src...), iv)
		if err != nil {
			t.Fatalf("Encrypt: %s", err)
		}
		ct[k*16+3] ^= 0x01
		pt, err := mode.Decrypt(c, ct, iv)
		if err != nil {
			t.Fatalf("Decrypt: %s", err)
		}
		for blk := 0; blk < 5; blk++ {
			changed := !bytes.Equal(pt[blk*16:(blk+1)*16], src[blk*16:(blk+1)*16])
			expect := blk == k || blk == k+1
			if changed != expect {
				t.Errorf("flip in block %d: plaintext block %d changed=%v", k, blk, changed)
			}
		}
	}
}

func TestECBDeterminism(t *testing.T) {
	c := newAES(t, message(16))
	block := []byte("0123456789abcdef")
	src := append(append([]byte{}, block...), block...)
	ct, err := NewECB(nil).Encrypt(c, src, []byte("ignored"))
	if err != nil {
		t.Fatalf("Encrypt: %s", err)
	}
	if len(ct) != 48 {
		t.Fatalf("ISO 7816-4 should add a full block, got %d bytes", len(ct))
	}
	if !bytes.Equal(ct[:16], ct[16:32]) {
		t.Errorf("identical plaintext blocks differ: %x %x", ct[:16], ct[16:32])
	}
}

func TestIVUntouched(t *testing.T) {
	c := newAES(t, message(16))
	for _, name := range ModeNames() {
		mode, _ := GetMode(name, nil)
		iv := message(16)
		ct, err := mode.Encrypt(c, message(45), iv)
		if err != nil {
			t.Fatalf("%s encrypt: %s", name, err)
		}
		if _, err := mode.Decrypt(c, ct, iv); err != nil {
			t.Fatalf("%s decrypt: %s", name, err)
		}
		if !bytes.Equal(iv, message(16)) {
			t.Errorf("%s mutated the IV", name)
		}
	}
}

func TestPaddingFailures(t *testing.T) {
	c := newAES(t, message(16))
	raw := NewECB(padding.NoPadding)
	pkcs7 := NewECB(padding.PKCS7Padding)
	tests := []struct {
		name string
		last byte
		want error
	}{
		{"zero length", 0x00, padding.ErrPaddingUnderflow},
		{"beyond block size", 0x11, padding.ErrPaddingOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := message(16)
			block[15] = tt.last
			ct, err := raw.Encrypt(c, block, nil)
			if err != nil {
				t.Fatalf("Encrypt: %s", err)
			}
			_, err = pkcs7.Decrypt(c, ct, nil)
			if errors.Cause(err) != tt.want {
				t.Errorf("Decrypt() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidation(t *testing.T) {
	c := newAES(t, message(16))
	tests := []struct {
		name string
		call func() error
		want error
	}{
		{
			name: "cbc short iv",
			call: func() error {
				_, err := NewCBC(nil).Encrypt(c, message(3), message(8))
				return err
			},
			want: ErrInvalidIV,
		},
		{
			name: "ctr missing iv",
			call: func() error {
				_, err := NewCTR().Decrypt(c, message(3), nil)
				return err
			},
			want: ErrInvalidIV,
		},
		{
			name: "ecb unpadded input",
			call: func() error {
				_, err := NewECB(padding.NoPadding).Encrypt(c, message(17), nil)
				return err
			},
			want: ErrUnalignedBlocks,
		},
		{
			name: "cbc truncated ciphertext",
			call: func() error {
				_, err := NewCBC(nil).Decrypt(c, message(31), message(16))
				return err
			},
			want: ErrUnalignedBlocks,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); errors.Cause(err) != tt.want {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestGetMode(t *testing.T) {
	mode, err := GetMode("CBC", padding.PKCS7Padding)
	if err != nil || mode.Name() != MODE_CBC || mode.Padding().Name() != padding.PADDING_PKCS7 {
		t.Errorf("GetMode(CBC) = %v, %v", mode, err)
	}
	mode, _ = GetMode(MODE_ECB, nil)
	if mode.Padding().Name() != padding.PADDING_ISO7816 || mode.RequiresIV() {
		t.Errorf("ecb defaults wrong")
	}
	for _, name := range []string{MODE_CFB, MODE_OFB, MODE_CTR} {
		mode, _ := GetMode(name, padding.PKCS7Padding)
		if mode.Padding().Name() != padding.PADDING_NONE || !mode.RequiresIV() {
			t.Errorf("%s must run unpadded with an IV", name)
		}
	}
	_, err = GetMode("xts", nil)
	if errors.Cause(err) != ErrUnknownMode || !strings.Contains(err.Error(), "xts") {
		t.Errorf("GetMode(xts) error = %v", err)
	}
}
