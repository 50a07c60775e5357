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
	"crypto/rand"

	"yunion.io/x/pkg/errors"
	"yunion.io/x/pkg/util/seclib"
	"yunion.io/x/pkg/utils"
)

const (
	ErrWeakPassphrase    = errors.Error("WeakPassphraseError")
	ErrInvalidPassphrase = errors.Error("InvalidPassphraseError")
)

// RandomPassword2 generates a passphrase that meets the complexity rules.
func RandomPassword2(width int) string {
	return seclib.RandomPassword2(width)
}

// ValidatePassphrase rejects passphrases with invalid characters, well
// known weak ones and those that do not meet the complexity rules.
func ValidatePassphrase(passwd string) error {
	ps := seclib.AnalyzePasswordStrenth(passwd)
	if len(ps.Invalid) > 0 {
		return errors.Wrapf(ErrInvalidPassphrase, "invalid characters %s", string(ps.Invalid))
	}
	if utils.IsInStringArray(passwd, seclib.WEAK_PASSWORDS) || !ps.MeetComplexity() {
		return ErrWeakPassphrase
	}
	return nil
}

// RandomBytes reads n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, errors.Wrap(err, "rand.Read")
	}
	return buf, nil
}
