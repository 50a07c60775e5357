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


package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/cryptoprofile"
	"yunion.io/x/cryptool/pkg/util/padding"
	"yunion.io/x/cryptool/pkg/util/seclib2"
)

func TestCodec(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		encoded  string
	}{
		{"hex", []byte{0xde, 0xad, 0xbe, 0xef}, ENCODING_HEX, "deadbeef"},
		{"base64", []byte("hello"), ENCODING_BASE64, "aGVsbG8="},
		{"text", []byte("hello"), ENCODING_TEXT, "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeOutput(tt.data, tt.encoding)
			assert.NoError(t, err)
			assert.Equal(t, tt.encoded, got)
			back, err := decodeInput(tt.encoded, tt.encoding)
			assert.NoError(t, err)
			assert.Equal(t, tt.data, back)
		})
	}
	_, err := decodeInput("zz", ENCODING_HEX)
	assert.Error(t, err)
	_, err = decodeInput("abc", "rot13")
	assert.Error(t, err)
	_, err = encodeOutput([]byte("abc"), "")
	assert.Error(t, err)
}

func TestPadCommand(t *testing.T) {
	out, err := padCommand(padding.PADDING_PKCS7, 8, "abcde", ENCODING_TEXT, ENCODING_HEX, false)
	assert.NoError(t, err)
	assert.Equal(t, "6162636465030303", out)

	out, err = padCommand(padding.PADDING_ISO7816, 8, "6162636465800000", ENCODING_HEX, ENCODING_TEXT, true)
	assert.NoError(t, err)
	assert.Equal(t, "abcde", out)

	_, err = padCommand(padding.PADDING_PKCS7, 8, "6162636465030309", ENCODING_HEX, ENCODING_TEXT, true)
	assert.Equal(t, padding.ErrPaddingOverflow, errors.Cause(err))

	_, err = padCommand(padding.PADDING_PKCS7, 0, "abc", ENCODING_TEXT, ENCODING_HEX, false)
	assert.Equal(t, blockmode.ErrInvalidBlockSize, errors.Cause(err))

	_, err = padCommand("pkcs5", 8, "abc", ENCODING_TEXT, ENCODING_HEX, false)
	assert.Equal(t, padding.ErrUnknownPadding, errors.Cause(err))
}

func TestGetProfile(t *testing.T) {
	o := CipherSpecOptions{}
	p, err := o.GetProfile(0)
	assert.NoError(t, err)
	assert.Equal(t, cryptoprofile.DEFAULT_PROFILE, p.Name)

	o = CipherSpecOptions{Cipher: "sm4", Mode: "ctr"}
	p, err = o.GetProfile(0)
	assert.NoError(t, err)
	assert.Equal(t, 16, p.KeySize)
	assert.Equal(t, padding.PADDING_NONE, p.Padding)

	o = CipherSpecOptions{Cipher: "aes", Mode: "ofb", Padding: "pkcs7"}
	_, err = o.GetProfile(16)
	assert.Equal(t, cryptoprofile.ErrInvalidProfile, errors.Cause(err))
}

func TestEncryptWithOptions(t *testing.T) {
	o := CipherKeyOptions{
		CipherSpecOptions: CipherSpecOptions{Cipher: "blowfish", Mode: "cbc", Padding: "ansix923"},
		KEY:               "secret key",
		KeyEncoding:       ENCODING_TEXT,
	}
	cryptor, err := o.newCryptor()
	assert.NoError(t, err)
	assert.Equal(t, 10, cryptor.Profile.KeySize)

	_, err = o.iv(cryptor, false)
	assert.Equal(t, blockmode.ErrInvalidIV, errors.Cause(err))
	iv, err := o.iv(cryptor, true)
	assert.NoError(t, err)
	assert.Len(t, iv, 8)

	ct, err := cryptor.Encrypt([]byte("selftest"), iv)
	assert.NoError(t, err)
	assert.Len(t, ct, 16)
	pt, err := cryptor.Decrypt(ct, iv)
	assert.NoError(t, err)
	assert.Equal(t, "selftest", string(pt))
}

func TestSelftest(t *testing.T) {
	results, err := runSelftest(4)
	assert.NoError(t, err)
	assert.Equal(t, len(selftestCombinations()), len(results))
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotZero(t, r.Cases, "%s-%s-%s", r.Cipher, r.Mode, r.Padding)
	}
}

func TestHeaderJSON(t *testing.T) {
	envelope, err := seclib2.Seal([]byte("Ab1-inspect"), []byte{'z', 0, 0}, seclib2.SSealOptions{Iterations: 10})
	assert.NoError(t, err)
	header, _, err := seclib2.ParseEnvelope(envelope)
	assert.NoError(t, err)

	obj := headerJSON(header)
	for _, tt := range []struct {
		key  string
		want int64
	}{
		{"plain_size", 3},
		{"body_size", 3},
		{"iterations", 10},
		{"key_size", 32},
	} {
		got, err := obj.Int(tt.key)
		assert.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
	profile, _ := obj.GetString("profile")
	assert.Equal(t, cryptoprofile.DEFAULT_PROFILE, profile)
}
