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

package padding

import (
	"strings"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/choices"
)

var (
	NoPadding       IPadding = SNoPadding{}
	ZeroPadding     IPadding = SZeroPadding{}
	ISO7816Padding  IPadding = SISO7816Padding{}
	AnsiX923Padding IPadding = SAnsiX923Padding{}
	ISO10126Padding IPadding = SISO10126Padding{}
	PKCS7Padding    IPadding = SPKCS7Padding{}
)

var paddings = map[string]IPadding{
	PADDING_NONE:     NoPadding,
	PADDING_ZERO:     ZeroPadding,
	PADDING_ISO7816:  ISO7816Padding,
	PADDING_ANSIX923: AnsiX923Padding,
	PADDING_ISO10126: ISO10126Padding,
	PADDING_PKCS7:    PKCS7Padding,
}

var PaddingChoices = choices.NewChoices(
	PADDING_NONE,
	PADDING_ZERO,
	PADDING_ISO7816,
	PADDING_ANSIX923,
	PADDING_ISO10126,
	PADDING_PKCS7,
)

// GetPadding looks up a scheme by name, case insensitive.
// An empty name selects the default ISO 7816-4 scheme.
func GetPadding(name string) (IPadding, error) {
	if len(name) == 0 {
		name = PADDING_DEFAULT
	}
	p, ok := paddings[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPadding, "%s, expect one of %s", name, PaddingChoices)
	}
	return p, nil
}

func PaddingNames() []string {
	return PaddingChoices.Keys()
}
