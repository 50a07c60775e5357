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
	"fmt"

	"yunion.io/x/jsonutils"
	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"
	"yunion.io/x/pkg/util/shellutils"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/cryptoprofile"
	"yunion.io/x/cryptool/pkg/util/padding"
	"yunion.io/x/cryptool/pkg/util/seclib2"
)

type CipherSpecOptions struct {
	Profile string `help:"Cipher profile, see list-profiles"`
	Cipher  string `help:"Block cipher, overrides the profile" choices:"aes|sm4|des|3des|blowfish|twofish|cast5|xtea|tea"`
	Mode    string `help:"Mode of operation used with --cipher" choices:"ecb|cbc|cfb|ofb|ctr" default:"cbc"`
	Padding string `help:"Padding scheme used with --cipher" choices:"none|zero|iso7816|ansix923|iso10126|pkcs7"`
}

// GetProfile resolves the options to a profile. keySize 0 selects the
// default key size of an explicit cipher.
func (o *CipherSpecOptions) GetProfile(keySize int) (*cryptoprofile.SProfile, error) {
	if len(o.Cipher) == 0 {
		return cryptoprofile.Get(o.Profile)
	}
	mode := orDefault(o.Mode, blockmode.MODE_CBC)
	p := &cryptoprofile.SProfile{
		Name:    fmt.Sprintf("%s-%s", o.Cipher, mode),
		Cipher:  o.Cipher,
		KeySize: keySize,
		Mode:    mode,
		Padding: o.Padding,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

type CipherKeyOptions struct {
	CipherSpecOptions
	KEY         string `help:"Cipher key"`
	KeyEncoding string `help:"Encoding of the key" choices:"hex|base64|text" default:"hex"`
	Iv          string `help:"Initialization vector, hex encoded"`
}

func (o *CipherKeyOptions) newCryptor() (*cryptoprofile.SCryptor, error) {
	key, err := decodeInput(o.KEY, o.KeyEncoding)
	if err != nil {
		return nil, errors.Wrap(err, "key")
	}
	p, err := o.GetProfile(len(key))
	if err != nil {
		return nil, err
	}
	return p.NewCryptor(key)
}

func (o *CipherKeyOptions) iv(cryptor *cryptoprofile.SCryptor, generate bool) ([]byte, error) {
	if len(o.Iv) > 0 {
		return decodeInput(o.Iv, ENCODING_HEX)
	}
	if !cryptor.RequiresIV() {
		return nil, nil
	}
	if !generate {
		return nil, errors.Wrapf(blockmode.ErrInvalidIV, "mode %s requires --iv", cryptor.Profile.Mode)
	}
	return cryptor.NewIV()
}

func init() {
	type GenKeyOptions struct {
		CipherSpecOptions
		Size     int    `help:"Key size in bytes, defaults to the profile key size"`
		Encoding string `help:"Output encoding" choices:"hex|base64" default:"hex"`
	}
	shellutils.R(&GenKeyOptions{}, "gen-key", "Generate a random cipher key", func(args *GenKeyOptions) error {
		p, err := args.GetProfile(args.Size)
		if err != nil {
			return err
		}
		size := p.KeySize
		if args.Size > 0 {
			spec, err := blockcipher.GetCipherSpec(p.Cipher)
			if err != nil {
				return err
			}
			if !spec.ValidKeySize(args.Size) {
				return errors.Wrapf(blockcipher.ErrInvalidKeySize, "%s does not accept %d bytes keys", p.Cipher, args.Size)
			}
			size = args.Size
		}
		key, err := seclib2.RandomBytes(size)
		if err != nil {
			return err
		}
		out, err := encodeOutput(key, args.Encoding)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	})

	type GenIVOptions struct {
		CipherSpecOptions
	}
	shellutils.R(&GenIVOptions{}, "gen-iv", "Generate a random block sized IV, hex encoded", func(args *GenIVOptions) error {
		p, err := args.GetProfile(0)
		if err != nil {
			return err
		}
		spec, err := blockcipher.GetCipherSpec(p.Cipher)
		if err != nil {
			return err
		}
		iv, err := seclib2.RandomBytes(spec.BlockSize)
		if err != nil {
			return err
		}
		out, _ := encodeOutput(iv, ENCODING_HEX)
		fmt.Println(out)
		return nil
	})

	type GenPassphraseOptions struct {
		Length int `help:"Passphrase length" default:"16"`
	}
	shellutils.R(&GenPassphraseOptions{}, "gen-passphrase", "Generate a random passphrase for seal", func(args *GenPassphraseOptions) error {
		fmt.Println(seclib2.RandomPassword2(args.Length))
		return nil
	})

	type PadOptions struct {
		PADDING   string `help:"Padding scheme" choices:"none|zero|iso7816|ansix923|iso10126|pkcs7"`
		BLOCKSIZE int    `help:"Block size in bytes"`
		DATA      string `help:"Data to pad or unpad"`
		Input     string `help:"Input encoding" choices:"hex|base64|text"`
		Output    string `help:"Output encoding" choices:"hex|base64|text"`
	}
	shellutils.R(&PadOptions{}, "pad", "Pad data to a multiple of the block size", func(args *PadOptions) error {
		out, err := padCommand(args.PADDING, args.BLOCKSIZE, args.DATA, orDefault(args.Input, ENCODING_TEXT), orDefault(args.Output, ENCODING_HEX), false)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	})
	shellutils.R(&PadOptions{}, "unpad", "Strip padding from data", func(args *PadOptions) error {
		out, err := padCommand(args.PADDING, args.BLOCKSIZE, args.DATA, orDefault(args.Input, ENCODING_HEX), orDefault(args.Output, ENCODING_TEXT), true)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	})

	type EncryptOptions struct {
		CipherKeyOptions
		DATA   string `help:"Plaintext"`
		Input  string `help:"Plaintext encoding" choices:"hex|base64|text" default:"text"`
		Output string `help:"Ciphertext encoding" choices:"hex|base64" default:"base64"`
	}
	shellutils.R(&EncryptOptions{}, "encrypt", "Encrypt data with a raw key", func(args *EncryptOptions) error {
		cryptor, err := args.newCryptor()
		if err != nil {
			return err
		}
		iv, err := args.iv(cryptor, true)
		if err != nil {
			return err
		}
		data, err := decodeInput(args.DATA, args.Input)
		if err != nil {
			return err
		}
		ct, err := cryptor.Encrypt(data, iv)
		if err != nil {
			return err
		}
		out, err := encodeOutput(ct, args.Output)
		if err != nil {
			return err
		}
		ret := jsonutils.NewDict()
		ret.Add(jsonutils.NewString(cryptor.Profile.Name), "profile")
		if iv != nil {
			ivStr, _ := encodeOutput(iv, ENCODING_HEX)
			ret.Add(jsonutils.NewString(ivStr), "iv")
		}
		ret.Add(jsonutils.NewString(out), "data")
		fmt.Println(ret.PrettyString())
		return nil
	})

	type DecryptOptions struct {
		CipherKeyOptions
		DATA   string `help:"Ciphertext"`
		Input  string `help:"Ciphertext encoding" choices:"hex|base64" default:"base64"`
		Output string `help:"Plaintext encoding" choices:"hex|base64|text" default:"text"`
	}
	shellutils.R(&DecryptOptions{}, "decrypt", "Decrypt data with a raw key", func(args *DecryptOptions) error {
		cryptor, err := args.newCryptor()
		if err != nil {
			return err
		}
		iv, err := args.iv(cryptor, false)
		if err != nil {
			return err
		}
		data, err := decodeInput(args.DATA, args.Input)
		if err != nil {
			return err
		}
		pt, err := cryptor.Decrypt(data, iv)
		if err != nil {
			return err
		}
		log.Debugf("decrypted %d bytes with %s", len(pt), cryptor.Profile.Name)
		out, err := encodeOutput(pt, args.Output)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	})
}

func orDefault(val, def string) string {
	if len(val) == 0 {
		return def
	}
	return val
}

func padCommand(name string, blockSize int, data string, input string, output string, unpad bool) (string, error) {
	if blockSize <= 0 || blockSize > padding.MAX_BLOCK_SIZE {
		return "", errors.Wrapf(blockmode.ErrInvalidBlockSize, "block size %d out of range [1, %d]", blockSize, padding.MAX_BLOCK_SIZE)
	}
	p, err := padding.GetPadding(name)
	if err != nil {
		return "", err
	}
	buf, err := decodeInput(data, input)
	if err != nil {
		return "", err
	}
	if unpad {
		buf, err = p.Unpad(blockSize, buf)
		if err != nil {
			return "", err
		}
	} else {
		buf = p.Pad(blockSize, buf)
	}
	return encodeOutput(buf, output)
}
