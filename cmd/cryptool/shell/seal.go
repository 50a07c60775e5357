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
	"encoding/hex"
	"fmt"

	"yunion.io/x/jsonutils"
	"yunion.io/x/log"
	"yunion.io/x/pkg/util/shellutils"

	"yunion.io/x/cryptool/pkg/util/seclib2"
)

func headerJSON(h *seclib2.SSealHeader) *jsonutils.JSONDict {
	ret := jsonutils.NewDict()
	ret.Add(jsonutils.NewInt(int64(h.Version)), "version")
	ret.Add(jsonutils.NewString(h.Profile), "profile")
	ret.Add(jsonutils.NewString(h.Cipher), "cipher")
	ret.Add(jsonutils.NewInt(int64(h.KeySize)), "key_size")
	ret.Add(jsonutils.NewString(h.Mode), "mode")
	ret.Add(jsonutils.NewString(h.Padding), "padding")
	ret.Add(jsonutils.NewString(hex.EncodeToString(h.Salt)), "salt")
	ret.Add(jsonutils.NewInt(int64(h.Iterations)), "iterations")
	if len(h.IV) > 0 {
		ret.Add(jsonutils.NewString(hex.EncodeToString(h.IV)), "iv")
	}
	ret.Add(jsonutils.NewString(fmt.Sprintf("%016x", h.KeyCheck)), "key_check")
	ret.Add(jsonutils.NewBool(h.Compressed), "compressed")
	ret.Add(jsonutils.NewInt(int64(h.PlainSize)), "plain_size")
	ret.Add(jsonutils.NewInt(int64(h.BodySize)), "body_size")
	return ret
}

func init() {
	type SealOptions struct {
		PASSPHRASE string `help:"Passphrase the key is derived from"`
		DATA       string `help:"Data to seal"`
		Input      string `help:"Input encoding" choices:"hex|base64|text" default:"text"`
		Profile    string `help:"Cipher profile, see list-profiles"`
		Iterations int    `help:"PBKDF2 iterations" default:"10000"`
		Compress   bool   `help:"LZ4 compress the data before encryption"`
	}
	shellutils.R(&SealOptions{}, "seal", "Encrypt data with a passphrase into a base64 envelope", func(args *SealOptions) error {
		if err := seclib2.ValidatePassphrase(args.PASSPHRASE); err != nil {
			log.Warningf("passphrase: %s", err)
		}
		data, err := decodeInput(args.DATA, args.Input)
		if err != nil {
			return err
		}
		envelope, err := seclib2.Seal([]byte(args.PASSPHRASE), data, seclib2.SSealOptions{
			Profile:    args.Profile,
			Iterations: args.Iterations,
			Compress:   args.Compress,
		})
		if err != nil {
			return err
		}
		out, _ := encodeOutput(envelope, ENCODING_BASE64)
		fmt.Println(out)
		return nil
	})

	type OpenOptions struct {
		PASSPHRASE string `help:"Passphrase the envelope was sealed with"`
		ENVELOPE   string `help:"Base64 encoded envelope"`
		Output     string `help:"Output encoding" choices:"hex|base64|text" default:"text"`
	}
	shellutils.R(&OpenOptions{}, "open", "Decrypt a sealed envelope", func(args *OpenOptions) error {
		envelope, err := decodeInput(args.ENVELOPE, ENCODING_BASE64)
		if err != nil {
			return err
		}
		data, err := seclib2.Open([]byte(args.PASSPHRASE), envelope)
		if err != nil {
			return err
		}
		out, err := encodeOutput(data, args.Output)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	})

	type InspectOptions struct {
		ENVELOPE string `help:"Base64 encoded envelope"`
	}
	shellutils.R(&InspectOptions{}, "inspect", "Show the header of a sealed envelope", func(args *InspectOptions) error {
		envelope, err := decodeInput(args.ENVELOPE, ENCODING_BASE64)
		if err != nil {
			return err
		}
		header, ct, err := seclib2.ParseEnvelope(envelope)
		if err != nil {
			return err
		}
		ret := headerJSON(header)
		ret.Add(jsonutils.NewInt(int64(len(ct))), "ciphertext_size")
		fmt.Println(ret.PrettyString())
		return nil
	})
}
