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


package fernetool

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
	"github.com/zeebo/xxh3"

	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/fileutils2"
	"yunion.io/x/cryptool/pkg/util/padding"
)

const (
	ErrNoKeys       = errors.Error("NoFernetKeysError")
	ErrInvalidToken = errors.Error("InvalidTokenError")
	ErrTokenExpired = errors.Error("TokenExpiredError")
)

const (
	FERNET_VERSION = byte(0x80)

	tsOffset     = 1
	ivOffset     = tsOffset + 8
	payOffset    = ivOffset + 16
	overhead     = payOffset + sha256.Size
	maxClockSkew = 60 * time.Second
)

var tokenEncoding = base64.URLEncoding

// SFernetKeyManager keeps a key repository in the keystone layout: one key
// per file, files named by an integer index, the highest index is the
// primary key used to encrypt and every key is tried to decrypt.
type SFernetKeyManager struct {
	keys []*fernet.Key
}

func (m *SFernetKeyManager) InitEmpty() error {
	k := &fernet.Key{}
	if err := k.Generate(); err != nil {
		return errors.Wrap(err, "Generate")
	}
	m.keys = []*fernet.Key{k}
	return nil
}

// InitKeys creates count new keys under path and loads them.
func (m *SFernetKeyManager) InitKeys(path string, count int) error {
	if count <= 0 {
		return errors.Wrapf(ErrNoKeys, "invalid key count %d", count)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return errors.Wrapf(err, "mkdir %s", path)
	}
	for i := 0; i < count; i++ {
		k := fernet.Key{}
		if err := k.Generate(); err != nil {
			return errors.Wrap(err, "Generate")
		}
		fn := filepath.Join(path, strconv.Itoa(i))
		if err := ioutil.WriteFile(fn, []byte(k.Encode()), 0600); err != nil {
			return errors.Wrapf(err, "write %s", fn)
		}
	}
	log.Infof("%d fernet keys initialized in %s", count, path)
	return m.LoadKeys(path)
}

func (m *SFernetKeyManager) LoadKeys(path string) error {
	if !fileutils2.IsDir(path) {
		return errors.Wrapf(ErrNoKeys, "%s is not a directory", path)
	}
	files, err := ioutil.ReadDir(path)
	if err != nil {
		return errors.Wrapf(err, "read dir %s", path)
	}
	indexes := make(map[int]*fernet.Key)
	for _, f := range files {
		if !f.Mode().IsRegular() {
			continue
		}
		idx, err := strconv.Atoi(f.Name())
		if err != nil {
			log.Debugf("skip non key file %s", f.Name())
			continue
		}
		content, err := ioutil.ReadFile(filepath.Join(path, f.Name()))
		if err != nil {
			return errors.Wrapf(err, "read key %s", f.Name())
		}
		k, err := fernet.DecodeKey(strings.TrimSpace(string(content)))
		if err != nil {
			return errors.Wrapf(err, "decode key %s", f.Name())
		}
		indexes[idx] = k
	}
	if len(indexes) == 0 {
		return errors.Wrapf(ErrNoKeys, "no key found in %s", path)
	}
	order := make([]int, 0, len(indexes))
	for idx := range indexes {
		order = append(order, idx)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(order)))
	m.keys = make([]*fernet.Key, 0, len(order))
	for _, idx := range order {
		m.keys = append(m.keys, indexes[idx])
	}
	log.Debugf("loaded %d fernet keys from %s, primary key %d", len(m.keys), path, order[0])
	return nil
}

func (m *SFernetKeyManager) PrimaryKeyHash() string {
	if len(m.keys) == 0 {
		return ""
	}
	return fmt.Sprintf("%016x", xxh3.Hash(m.keys[0][:]))
}

func signKey(k *fernet.Key) []byte  { return k[:16] }
func cryptKey(k *fernet.Key) []byte { return k[16:] }

func sign(k *fernet.Key, data []byte) []byte {
	h := hmac.New(sha256.New, signKey(k))
	h.Write(data)
	return h.Sum(nil)
}

func (m *SFernetKeyManager) Encrypt(msg []byte) ([]byte, error) {
	return m.encryptAt(msg, time.Now())
}

func (m *SFernetKeyManager) encryptAt(msg []byte, ts time.Time) ([]byte, error) {
	if len(m.keys) == 0 {
		return nil, ErrNoKeys
	}
	k := m.keys[0]
	c, err := blockcipher.NewCipher(blockcipher.CIPHER_AES, cryptKey(k))
	if err != nil {
		return nil, errors.Wrap(err, "NewCipher")
	}
	iv := make([]byte, 16)
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "rand.Read")
	}
	tok := make([]byte, payOffset, overhead+len(msg)+16)
	tok[0] = FERNET_VERSION
	binary.BigEndian.PutUint64(tok[tsOffset:], uint64(ts.Unix()))
	copy(tok[ivOffset:], iv)
	payload := append(tok[payOffset:], msg...)
	ct, err := blockmode.NewCBC(padding.PKCS7Padding).Encrypt(c, payload, iv)
	if err != nil {
		return nil, errors.Wrap(err, "cbc encrypt")
	}
	tok = append(tok[:payOffset], ct...)
	tok = append(tok, sign(k, tok)...)

	ret := make([]byte, tokenEncoding.EncodedLen(len(tok)))
	tokenEncoding.Encode(ret, tok)
	return ret, nil
}

// Decrypt verifies tok against every key and returns the message. A
// positive ttl also rejects tokens older than ttl or from the future.
func (m *SFernetKeyManager) Decrypt(tok []byte, ttl time.Duration) ([]byte, error) {
	return m.decryptAt(tok, ttl, time.Now())
}

func (m *SFernetKeyManager) decryptAt(tok []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	if len(m.keys) == 0 {
		return nil, ErrNoKeys
	}
	raw := make([]byte, tokenEncoding.DecodedLen(len(tok)))
	n, err := tokenEncoding.Decode(raw, tok)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidToken, "base64: %s", err)
	}
	raw = raw[:n]
	if len(raw) < overhead+16 || raw[0] != FERNET_VERSION {
		return nil, errors.Wrap(ErrInvalidToken, "malformed token")
	}
	if (len(raw)-overhead)%16 != 0 {
		return nil, errors.Wrap(ErrInvalidToken, "unaligned payload")
	}
	ts := time.Unix(int64(binary.BigEndian.Uint64(raw[tsOffset:])), 0)
	if ttl > 0 && (now.After(ts.Add(ttl)) || ts.After(now.Add(maxClockSkew))) {
		return nil, errors.Wrapf(ErrTokenExpired, "issued at %s", ts)
	}
	signed := raw[:len(raw)-sha256.Size]
	mac := raw[len(raw)-sha256.Size:]
	for _, k := range m.keys {
		if !hmac.Equal(mac, sign(k, signed)) {
			continue
		}
		c, err := blockcipher.NewCipher(blockcipher.CIPHER_AES, cryptKey(k))
		if err != nil {
			return nil, errors.Wrap(err, "NewCipher")
		}
		payload := append([]byte{}, signed[payOffset:]...)
		msg, err := blockmode.NewCBC(padding.PKCS7Padding).Decrypt(c, payload, signed[ivOffset:payOffset])
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidToken, "%s", err)
		}
		return msg, nil
	}
	return nil, errors.Wrap(ErrInvalidToken, "signature mismatch")
}
