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
	"encoding/base64"
	"encoding/hex"
	"strings"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/choices"
)

const (
	ENCODING_HEX    = "hex"
	ENCODING_BASE64 = "base64"
	ENCODING_TEXT   = "text"
)

var encodingChoices = choices.NewChoices(ENCODING_HEX, ENCODING_BASE64, ENCODING_TEXT)

func checkEncoding(encoding string) error {
	if !encodingChoices.Has(encoding) {
		return errors.Errorf("unknown encoding %q, expect %s", encoding, encodingChoices)
	}
	return nil
}

func decodeInput(data string, encoding string) ([]byte, error) {
	if err := checkEncoding(encoding); err != nil {
		return nil, err
	}
	switch encoding {
	case ENCODING_HEX:
		ret, err := hex.DecodeString(strings.TrimSpace(data))
		if err != nil {
			return nil, errors.Wrap(err, "hex.DecodeString")
		}
		return ret, nil
	case ENCODING_BASE64:
		ret, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
		if err != nil {
			return nil, errors.Wrap(err, "base64.StdEncoding.DecodeString")
		}
		return ret, nil
	default:
		return []byte(data), nil
	}
}

func encodeOutput(data []byte, encoding string) (string, error) {
	if err := checkEncoding(encoding); err != nil {
		return "", err
	}
	switch encoding {
	case ENCODING_HEX:
		return hex.EncodeToString(data), nil
	case ENCODING_BASE64:
		return base64.StdEncoding.EncodeToString(data), nil
	default:
		return string(data), nil
	}
}
