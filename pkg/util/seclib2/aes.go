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

package seclib2

import (
	"crypto/sha256"
	"encoding/base64"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/padding"
)

// encryptAES encrypts secret with AES-256-CBC and PKCS#7 under the SHA-256
// digest of key. The random IV is prepended to the ciphertext.
func encryptAES(key []byte, secret []byte) ([]byte, error) {
	digest := sha256.Sum256(key)
	c, err := blockcipher.NewCipher(blockcipher.CIPHER_AES, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "NewCipher")
	}
	bs := blockmode.BlockByteSize(c)
	iv, err := RandomBytes(bs)
	if err != nil {
		return nil, err
	}
	// room for the IV in front and a padding block behind
	buf := make([]byte, bs+len(secret), 2*bs+len(secret))
	copy(buf, iv)
	copy(buf[bs:], secret)
	ct, err := blockmode.NewCBC(padding.PKCS7Padding).Encrypt(c, buf[bs:], iv)
	if err != nil {
		return nil, errors.Wrap(err, "cbc encrypt")
	}
	return buf[:bs+len(ct)], nil
}

func decryptAES(key []byte, code []byte) ([]byte, error) {
	digest := sha256.Sum256(key)
	c, err := blockcipher.NewCipher(blockcipher.CIPHER_AES, digest[:])
	if err != nil {
		return nil, errors.Wrap(err, "NewCipher")
	}
	bs := blockmode.BlockByteSize(c)
	if len(code) < 2*bs {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "ciphertext too short: %d", len(code))
	}
	buf := make([]byte, len(code)-bs)
	copy(buf, code[bs:])
	return blockmode.NewCBC(padding.PKCS7Padding).Decrypt(c, buf, code[:bs])
}

func EncryptBase64(key string, secret string) (string, error) {
	code, err := encryptAES([]byte(key), []byte(secret))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(code), nil
}

func DecryptBase64(key string, code string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(code)
	if err != nil {
		return "", errors.Wrap(err, "base64.StdEncoding.DecodeString")
	}
	secret, err := decryptAES([]byte(key), raw)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
