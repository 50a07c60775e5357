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
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/pbkdf2"

	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/cryptoprofile"
	"yunion.io/x/cryptool/pkg/util/padding"
)

const (
	ErrInvalidEnvelope = errors.Error("InvalidEnvelopeError")
	ErrWrongPassphrase = errors.Error("WrongPassphraseError")
)

const (
	SEAL_VERSION           = 1
	SEAL_SALT_SIZE         = 16
	SEAL_DEFAULT_ITERATION = 10000
	SEAL_MAX_ITERATION     = 10000000

	// header length is bounded so a corrupt prefix cannot force a big read
	sealMaxHeaderSize = 4096
	// an lz4 block never expands more than 255 times
	lz4MaxRatio = 255
)

var sealMagic = []byte("YCT1")

// SSealHeader is stored msgpack encoded in front of the ciphertext.
type SSealHeader struct {
	Version    int    `msgpack:"v"`
	Profile    string `msgpack:"profile"`
	Cipher     string `msgpack:"cipher"`
	Mode       string `msgpack:"mode"`
	Padding    string `msgpack:"padding"`
	KeySize    int    `msgpack:"key_size"`
	Salt       []byte `msgpack:"salt"`
	Iterations int    `msgpack:"iter"`
	IV         []byte `msgpack:"iv"`
	KeyCheck   uint64 `msgpack:"kcv"`
	Compressed bool   `msgpack:"lz4"`
	PlainSize  int    `msgpack:"size"`
	BodySize   int    `msgpack:"body"`
}

type SSealOptions struct {
	Profile    string
	Iterations int
	Compress   bool
}

func deriveKey(passphrase []byte, salt []byte, iterations int, keySize int) []byte {
	return pbkdf2.Key(passphrase, salt, iterations, keySize, sha256.New)
}

func keyCheckValue(key []byte) uint64 {
	return xxh3.Hash(key)
}

// compressBlock returns nil when the data does not shrink.
func compressBlock(data []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, errors.Wrap(err, "lz4.CompressBlock")
	}
	if n == 0 || n >= len(data) {
		return nil, nil
	}
	return dst[:n], nil
}

func uncompressBlock(data []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, errors.Wrap(err, "lz4.UncompressBlock")
	}
	if n != size {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "uncompressed %d bytes, expect %d", n, size)
	}
	return dst, nil
}

// Seal encrypts plaintext under a key derived from passphrase and wraps the
// result in a self describing envelope.
func Seal(passphrase []byte, plaintext []byte, opts SSealOptions) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, errors.Wrap(ErrInvalidPassphrase, "empty passphrase")
	}
	profile, err := cryptoprofile.Get(opts.Profile)
	if err != nil {
		return nil, err
	}
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = SEAL_DEFAULT_ITERATION
	}
	if iterations > SEAL_MAX_ITERATION {
		return nil, errors.Errorf("iterations %d exceeds %d", iterations, SEAL_MAX_ITERATION)
	}
	salt, err := RandomBytes(SEAL_SALT_SIZE)
	if err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, salt, iterations, profile.KeySize)
	cryptor, err := profile.NewCryptor(key)
	if err != nil {
		return nil, err
	}
	iv, err := cryptor.NewIV()
	if err != nil {
		return nil, err
	}

	header := SSealHeader{
		Version:    SEAL_VERSION,
		Profile:    profile.Name,
		Cipher:     profile.Cipher,
		Mode:       profile.Mode,
		Padding:    profile.Padding,
		KeySize:    profile.KeySize,
		Salt:       salt,
		Iterations: iterations,
		IV:         iv,
		KeyCheck:   keyCheckValue(key),
		PlainSize:  len(plaintext),
	}

	body := plaintext
	if opts.Compress && len(plaintext) > 0 {
		compressed, err := compressBlock(plaintext)
		if err != nil {
			return nil, err
		}
		if compressed != nil {
			body = compressed
			header.Compressed = true
		} else {
			log.Debugf("plaintext of %d bytes is incompressible, stored as is", len(plaintext))
		}
	}
	header.BodySize = len(body)
	// encrypt a private copy so the caller's plaintext stays intact
	ct, err := cryptor.Encrypt(append([]byte{}, body...), iv)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt")
	}

	hdr, err := msgpack.Marshal(&header)
	if err != nil {
		return nil, errors.Wrap(err, "msgpack.Marshal")
	}
	envelope := make([]byte, 0, len(sealMagic)+4+len(hdr)+len(ct))
	envelope = append(envelope, sealMagic...)
	envelope = binary.BigEndian.AppendUint32(envelope, uint32(len(hdr)))
	envelope = append(envelope, hdr...)
	envelope = append(envelope, ct...)
	return envelope, nil
}

// ParseEnvelope splits an envelope into its header and ciphertext.
func ParseEnvelope(envelope []byte) (*SSealHeader, []byte, error) {
	prefix := len(sealMagic) + 4
	if len(envelope) < prefix || !bytes.Equal(envelope[:len(sealMagic)], sealMagic) {
		return nil, nil, errors.Wrap(ErrInvalidEnvelope, "bad magic")
	}
	hdrLen := int(binary.BigEndian.Uint32(envelope[len(sealMagic):prefix]))
	if hdrLen > sealMaxHeaderSize || prefix+hdrLen > len(envelope) {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "bad header length %d", hdrLen)
	}
	header := &SSealHeader{}
	if err := msgpack.Unmarshal(envelope[prefix:prefix+hdrLen], header); err != nil {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "msgpack.Unmarshal: %s", err)
	}
	if header.Version != SEAL_VERSION {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "unsupported version %d", header.Version)
	}
	if header.Iterations <= 0 || header.Iterations > SEAL_MAX_ITERATION {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "bad iterations %d", header.Iterations)
	}
	ct := envelope[prefix+hdrLen:]
	if header.BodySize < 0 || header.BodySize > len(ct) {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "bad body size %d for %d bytes ciphertext", header.BodySize, len(ct))
	}
	maxPlain := header.BodySize
	if header.Compressed {
		maxPlain = header.BodySize * lz4MaxRatio
	}
	if header.PlainSize < 0 || header.PlainSize > maxPlain {
		return nil, nil, errors.Wrapf(ErrInvalidEnvelope, "bad plaintext size %d for %d bytes body", header.PlainSize, header.BodySize)
	}
	return header, ct, nil
}

// profile rebuilds the profile recorded in the header, independent of the
// profiles currently loaded.
func (h *SSealHeader) profile() (*cryptoprofile.SProfile, error) {
	p := &cryptoprofile.SProfile{
		Name:    h.Profile,
		Cipher:  h.Cipher,
		KeySize: h.KeySize,
		Mode:    h.Mode,
		Padding: h.Padding,
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "%s", err)
	}
	return p, nil
}

// Open reverses Seal. A passphrase that derives a key with a different key
// check value fails with ErrWrongPassphrase before any decryption.
func Open(passphrase []byte, envelope []byte) ([]byte, error) {
	header, ct, err := ParseEnvelope(envelope)
	if err != nil {
		return nil, err
	}
	profile, err := header.profile()
	if err != nil {
		return nil, err
	}
	key := deriveKey(passphrase, header.Salt, header.Iterations, profile.KeySize)
	if keyCheckValue(key) != header.KeyCheck {
		return nil, ErrWrongPassphrase
	}
	cryptor, err := profile.NewCryptor(key)
	if err != nil {
		return nil, err
	}
	body, err := cryptor.Decrypt(append([]byte{}, ct...), header.IV)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt")
	}
	if header.Padding == padding.PADDING_ZERO && len(body) < header.BodySize {
		// zero padding also strips trailing zeros of the body itself
		body = append(body, make([]byte, header.BodySize-len(body))...)
	}
	if header.Compressed {
		return uncompressBlock(body, header.PlainSize)
	}
	if len(body) != header.PlainSize {
		return nil, errors.Wrapf(ErrInvalidEnvelope, "got %d bytes, expect %d", len(body), header.PlainSize)
	}
	return body, nil
}

func SealString(passphrase string, plaintext string, opts SSealOptions) (string, error) {
	envelope, err := Seal([]byte(passphrase), []byte(plaintext), opts)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(envelope), nil
}

func OpenString(passphrase string, sealed string) (string, error) {
	envelope, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidEnvelope, "base64: %s", err)
	}
	plain, err := Open([]byte(passphrase), envelope)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
