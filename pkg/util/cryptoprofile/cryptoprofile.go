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
	"crypto/rand"
	_ "embed"
	"io/ioutil"
	"sort"

	"yunion.io/x/jsonutils"
	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/padding"
)

const (
	ErrUnknownProfile = errors.Error("UnknownProfileError")
	ErrInvalidProfile = errors.Error("InvalidProfileError")
)

const DEFAULT_PROFILE = "aes-256-cbc-pkcs7"

//go:embed profiles.yaml
var builtinProfiles string

type SProfile struct {
	Name        string `json:"name"`
	Cipher      string `json:"cipher"`
	KeySize     int    `json:"key_size"`
	Mode        string `json:"mode"`
	Padding     string `json:"padding"`
	Description string `json:"description"`
}

type sProfileList struct {
	Profiles []SProfile `json:"profiles"`
}

// Validate normalizes the profile in place: a zero key size takes the
// cipher's default and stream modes get an explicit "none" padding.
func (p *SProfile) Validate() error {
	if len(p.Name) == 0 {
		return errors.Wrap(ErrInvalidProfile, "empty name")
	}
	spec, err := blockcipher.GetCipherSpec(p.Cipher)
	if err != nil {
		return errors.Wrapf(ErrInvalidProfile, "profile %s: %s", p.Name, err)
	}
	p.Cipher = spec.Name
	if p.KeySize == 0 {
		p.KeySize = spec.DefaultKeySize
	}
	if !spec.ValidKeySize(p.KeySize) {
		return errors.Wrapf(ErrInvalidProfile, "profile %s: %s does not accept %d bytes keys", p.Name, p.Cipher, p.KeySize)
	}
	mode, err := blockmode.GetMode(p.Mode, nil)
	if err != nil {
		return errors.Wrapf(ErrInvalidProfile, "profile %s: %s", p.Name, err)
	}
	p.Mode = mode.Name()
	if blockmode.IsStreamMode(p.Mode) {
		if len(p.Padding) > 0 && p.Padding != padding.PADDING_NONE {
			return errors.Wrapf(ErrInvalidProfile, "profile %s: stream mode %s cannot use %s padding", p.Name, p.Mode, p.Padding)
		}
		p.Padding = padding.PADDING_NONE
	} else {
		pad, err := padding.GetPadding(p.Padding)
		if err != nil {
			return errors.Wrapf(ErrInvalidProfile, "profile %s: %s", p.Name, err)
		}
		p.Padding = pad.Name()
	}
	return nil
}

// NewCryptor keys the profile's cipher.
func (p *SProfile) NewCryptor(key []byte) (*SCryptor, error) {
	if len(key) != p.KeySize {
		return nil, errors.Wrapf(blockcipher.ErrInvalidKeySize, "profile %s expects a %d bytes key, got %d", p.Name, p.KeySize, len(key))
	}
	c, err := blockcipher.NewCipher(p.Cipher, key)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", p.Name)
	}
	pad, err := padding.GetPadding(p.Padding)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", p.Name)
	}
	mode, err := blockmode.GetMode(p.Mode, pad)
	if err != nil {
		return nil, errors.Wrapf(err, "profile %s", p.Name)
	}
	return &SCryptor{
		Profile: *p,
		cipher:  c,
		mode:    mode,
	}, nil
}

// SCryptor binds a keyed cipher to a mode.
type SCryptor struct {
	Profile SProfile

	cipher *blockcipher.SBlockCipher
	mode   blockmode.IBlockMode
}

func (c *SCryptor) BlockSize() int {
	return blockmode.BlockByteSize(c.cipher)
}

func (c *SCryptor) RequiresIV() bool {
	return c.mode.RequiresIV()
}

// NewIV returns a random block sized IV, or nil for modes without one.
func (c *SCryptor) NewIV() ([]byte, error) {
	if !c.mode.RequiresIV() {
		return nil, nil
	}
	iv := make([]byte, c.BlockSize())
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "rand.Read")
	}
	return iv, nil
}

func (c *SCryptor) Encrypt(buf []byte, iv []byte) ([]byte, error) {
	return c.mode.Encrypt(c.cipher, buf, iv)
}

func (c *SCryptor) Decrypt(buf []byte, iv []byte) ([]byte, error) {
	return c.mode.Decrypt(c.cipher, buf, iv)
}

// SProfileTable is read only once built.
type SProfileTable struct {
	profiles map[string]*SProfile
}

func parseProfiles(yaml string, source string) ([]SProfile, error) {
	obj, err := jsonutils.ParseYAML(yaml)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", source)
	}
	list := sProfileList{}
	if err := obj.Unmarshal(&list); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", source)
	}
	return list.Profiles, nil
}

// NewProfileTable builds a table from the built-in profiles followed by
// every document in extras; a later profile replaces an earlier one of the
// same name.
func NewProfileTable(extras ...string) (*SProfileTable, error) {
	table := &SProfileTable{
		profiles: make(map[string]*SProfile),
	}
	sources := append([]string{builtinProfiles}, extras...)
	for i, src := range sources {
		name := "builtin profiles"
		if i > 0 {
			name = "extra profiles"
		}
		profiles, err := parseProfiles(src, name)
		if err != nil {
			return nil, err
		}
		for j := range profiles {
			p := profiles[j]
			if err := p.Validate(); err != nil {
				return nil, err
			}
			if _, ok := table.profiles[p.Name]; ok {
				log.Warningf("profile %s overridden by %s", p.Name, name)
			}
			table.profiles[p.Name] = &p
		}
	}
	return table, nil
}

func (t *SProfileTable) Get(name string) (*SProfile, error) {
	if len(name) == 0 {
		name = DEFAULT_PROFILE
	}
	p, ok := t.profiles[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProfile, "%s", name)
	}
	ret := *p
	return &ret, nil
}

// List returns copies of all profiles ordered by name.
func (t *SProfileTable) List() []SProfile {
	ret := make([]SProfile, 0, len(t.profiles))
	for _, p := range t.profiles {
		ret = append(ret, *p)
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name < ret[j].Name
	})
	return ret
}

var defaultTable *SProfileTable

func init() {
	var err error
	defaultTable, err = NewProfileTable()
	if err != nil {
		log.Fatalf("builtin profiles: %s", err)
	}
}

// Init rebuilds the default table with the profiles found in the YAML
// file at path. It must run before any lookup, at program start.
func Init(path string) error {
	if len(path) == 0 {
		return nil
	}
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}
	table, err := NewProfileTable(string(content))
	if err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	defaultTable = table
	log.Infof("loaded profiles from %s, %d profiles in total", path, len(table.profiles))
	return nil
}

func Get(name string) (*SProfile, error) {
	return defaultTable.Get(name)
}

func List() []SProfile {
	return defaultTable.List()
}
