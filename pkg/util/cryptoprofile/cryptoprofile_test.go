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

package cryptoprofile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/padding"
)

func TestBuiltinProfiles(t *testing.T) {
	profiles := List()
	if len(profiles) != 14 {
		t.Fatalf("expect 14 builtin profiles, got %d", len(profiles))
	}
	plain := []byte("The quick brown fox jumps over the lazy dog")
	for _, p := range profiles {
		t.Run(p.Name, func(t *testing.T) {
			key := bytes.Repeat([]byte{0x5a}, p.KeySize)
			c, err := p.NewCryptor(key)
			if err != nil {
				t.Fatalf("NewCryptor: %s", err)
			}
			iv, err := c.NewIV()
			if err != nil {
				t.Fatalf("NewIV: %s", err)
			}
			if c.RequiresIV() != (iv != nil) {
				t.Errorf("iv presence mismatch")
			}
			ct, err := c.Encrypt(append([]byte{}, plain...), iv)
			if err != nil {
				t.Fatalf("Encrypt: %s", err)
			}
			pt, err := c.Decrypt(ct, iv)
			if err != nil {
				t.Fatalf("Decrypt: %s", err)
			}
			if !bytes.Equal(pt, plain) {
				t.Errorf("round trip mismatch")
			}
		})
	}
}

func TestGetDefault(t *testing.T) {
	p, err := Get("")
	assert.NoError(t, err)
	assert.Equal(t, DEFAULT_PROFILE, p.Name)
	assert.Equal(t, 32, p.KeySize)

	// lookups return copies
	p.Mode = "ecb"
	p2, _ := Get(DEFAULT_PROFILE)
	assert.Equal(t, "cbc", p2.Mode)

	_, err = Get("rot13")
	assert.Equal(t, ErrUnknownProfile, errors.Cause(err))
}

func TestExtraProfiles(t *testing.T) {
	extra := `
profiles:
- name: aes-256-ctr
  cipher: aes
  key_size: 16
  mode: ctr
- name: sm4-ecb
  cipher: SM4
  mode: ecb
`
	table, err := NewProfileTable(extra)
	assert.NoError(t, err)
	assert.Equal(t, 15, len(table.List()))

	p, err := table.Get("aes-256-ctr")
	assert.NoError(t, err)
	assert.Equal(t, 16, p.KeySize)
	assert.Equal(t, padding.PADDING_NONE, p.Padding)

	p, err = table.Get("sm4-ecb")
	assert.NoError(t, err)
	assert.Equal(t, "sm4", p.Cipher)
	assert.Equal(t, 16, p.KeySize)
	assert.Equal(t, padding.PADDING_ISO7816, p.Padding)
}

func TestInvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile SProfile
	}{
		{"no name", SProfile{Cipher: "aes", Mode: "cbc"}},
		{"unknown cipher", SProfile{Name: "x", Cipher: "rc4", Mode: "cbc"}},
		{"bad key size", SProfile{Name: "x", Cipher: "aes", KeySize: 20, Mode: "cbc"}},
		{"unknown mode", SProfile{Name: "x", Cipher: "aes", Mode: "gcm"}},
		{"unknown padding", SProfile{Name: "x", Cipher: "aes", Mode: "cbc", Padding: "pkcs5"}},
		{"padded stream mode", SProfile{Name: "x", Cipher: "aes", Mode: "ofb", Padding: "pkcs7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if errors.Cause(err) != ErrInvalidProfile {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNewCryptorKeySize(t *testing.T) {
	p, _ := Get("sm4-cbc-pkcs7")
	_, err := p.NewCryptor(make([]byte, 32))
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	saved := defaultTable
	defer func() { defaultTable = saved }()

	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := "profiles:\n- name: des-legacy\n  cipher: des\n  mode: ecb\n  padding: zero\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %s", err)
	}
	assert.NoError(t, Init(path))
	p, err := Get("des-legacy")
	assert.NoError(t, err)
	assert.Equal(t, 8, p.KeySize)

	assert.Error(t, Init(filepath.Join(t.TempDir(), "missing.yaml")))
}
