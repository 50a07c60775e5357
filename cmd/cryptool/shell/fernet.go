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
	"time"

	"yunion.io/x/pkg/util/shellutils"

	"yunion.io/x/cryptool/pkg/util/fernetool"
)

func init() {
	type FernetInitKeysOptions struct {
		PATH  string `help:"path that stores fernet keys"`
		COUNT int    `help:"number of keys to init"`
	}
	shellutils.R(&FernetInitKeysOptions{}, "fernet-initkeys", "Initialze fernet keys", func(args *FernetInitKeysOptions) error {
		fm := fernetool.SFernetKeyManager{}
		err := fm.InitKeys(args.PATH, args.COUNT)
		if err != nil {
			return err
		}
		fmt.Println("primary key hash:", fm.PrimaryKeyHash())
		return nil
	})

	type FernetEncryptOptions struct {
		PATH string `help:"path that stores fernet keys"`
		MSG  string `help:"message to encrypt"`
	}
	shellutils.R(&FernetEncryptOptions{}, "fernet-encrypt", "Encrypt message with fernet keys", func(args *FernetEncryptOptions) error {
		fm := fernetool.SFernetKeyManager{}
		err := fm.LoadKeys(args.PATH)
		if err != nil {
			return err
		}
		ret, err := fm.Encrypt([]byte(args.MSG))
		if err != nil {
			return err
		}
		fmt.Println(string(ret))
		return nil
	})

	type FernetDecryptOptions struct {
		PATH  string `help:"path that stores fernet keys"`
		TOKEN string `help:"token to decrypt"`
		Ttl   int    `help:"reject tokens older than ttl seconds, 0 disables the check"`
	}
	shellutils.R(&FernetDecryptOptions{}, "fernet-decrypt", "Decrypt message with fernet keys", func(args *FernetDecryptOptions) error {
		fm := fernetool.SFernetKeyManager{}
		err := fm.LoadKeys(args.PATH)
		if err != nil {
			return err
		}
		ret, err := fm.Decrypt([]byte(args.TOKEN), time.Duration(args.Ttl)*time.Second)
		if err != nil {
			return err
		}
		fmt.Println(string(ret))
		return nil
	})
}
