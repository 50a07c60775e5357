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

package blockmode

import (
	"strings"

	"yunion.io/x/pkg/errors"

	"yunion.io/x/cryptool/pkg/util/choices"
	"yunion.io/x/cryptool/pkg/util/padding"
)

type modeFactory func(p padding.IPadding) IBlockMode

var modes = map[string]modeFactory{
	MODE_ECB: func(p padding.IPadding) IBlockMode { return NewECB(p) },
	MODE_CBC: func(p padding.IPadding) IBlockMode { return NewCBC(p) },
	MODE_CFB: func(padding.IPadding) IBlockMode { return NewCFB() },
	MODE_OFB: func(padding.IPadding) IBlockMode { return NewOFB() },
	MODE_CTR: func(padding.IPadding) IBlockMode { return NewCTR() },
}

var ModeChoices = choices.NewChoices(
	MODE_ECB,
	MODE_CBC,
	MODE_CFB,
	MODE_OFB,
	MODE_CTR,
)

var streamModes = choices.NewChoices(MODE_CFB, MODE_OFB, MODE_CTR)

// GetMode builds the named mode. The padding only applies to ECB and CBC,
// where nil selects ISO 7816-4; stream modes always run unpadded.
func GetMode(name string, p padding.IPadding) (IBlockMode, error) {
	factory, ok := modes[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownMode, "%s, expect one of %s", name, ModeChoices)
	}
	return factory(p), nil
}

func ModeNames() []string {
	return ModeChoices.Keys()
}

// IsStreamMode reports whether the named mode is byte oriented and so
// never pads.
func IsStreamMode(name string) bool {
	return streamModes.Has(strings.ToLower(name))
}
