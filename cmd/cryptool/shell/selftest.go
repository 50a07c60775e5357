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
	"bytes"
	"fmt"

	"github.com/gosuri/uitable"
	"golang.org/x/sync/errgroup"

	"yunion.io/x/log"
	"yunion.io/x/pkg/errors"
	"yunion.io/x/pkg/util/shellutils"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/padding"
	"yunion.io/x/cryptool/pkg/util/seclib2"
)

type sSelftestResult struct {
	Cipher  string
	Mode    string
	Padding string
	Cases   int
	Err     error
}

func selftestCombinations() []*sSelftestResult {
	ret := make([]*sSelftestResult, 0)
	for _, c := range blockcipher.CipherNames() {
		for _, m := range blockmode.ModeNames() {
			if blockmode.IsStreamMode(m) {
				ret = append(ret, &sSelftestResult{Cipher: c, Mode: m, Padding: padding.PADDING_NONE})
				continue
			}
			for _, p := range padding.PaddingNames() {
				ret = append(ret, &sSelftestResult{Cipher: c, Mode: m, Padding: p})
			}
		}
	}
	return ret
}

// message bytes are never zero so zero padding stays unambiguous
func selftestMessage(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte(i%251) + 1
	}
	return buf
}

func (r *sSelftestResult) run() error {
	spec, err := blockcipher.GetCipherSpec(r.Cipher)
	if err != nil {
		return err
	}
	key, err := seclib2.RandomBytes(spec.DefaultKeySize)
	if err != nil {
		return err
	}
	c, err := blockcipher.NewCipher(r.Cipher, key)
	if err != nil {
		return err
	}
	pad, err := padding.GetPadding(r.Padding)
	if err != nil {
		return err
	}
	mode, err := blockmode.GetMode(r.Mode, pad)
	if err != nil {
		return err
	}
	bs := spec.BlockSize
	var iv []byte
	if mode.RequiresIV() {
		iv, err = seclib2.RandomBytes(bs)
		if err != nil {
			return err
		}
	}
	for _, n := range []int{0, 1, bs - 1, bs, bs + 1, 3 * bs} {
		if r.Padding == padding.PADDING_NONE && !blockmode.IsStreamMode(r.Mode) && n%bs != 0 {
			continue
		}
		plain := selftestMessage(n)
		ct, err := mode.Encrypt(c, selftestMessage(n), iv)
		if err != nil {
			return errors.Wrapf(err, "encrypt %d bytes", n)
		}
		if n >= bs && bytes.Equal(ct[:n], plain) {
			return errors.Errorf("ciphertext of %d bytes equals plaintext", n)
		}
		pt, err := mode.Decrypt(c, ct, iv)
		if err != nil {
			return errors.Wrapf(err, "decrypt %d bytes", n)
		}
		if !bytes.Equal(pt, plain) {
			return errors.Errorf("round trip of %d bytes mismatch", n)
		}
		r.Cases++
	}
	return nil
}

// runSelftest round trips every cipher, mode and padding combination, at
// most parallel of them at a time.
func runSelftest(parallel int) ([]*sSelftestResult, error) {
	results := selftestCombinations()
	var g errgroup.Group
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i := range results {
		r := results[i]
		g.Go(func() error {
			r.Err = r.run()
			if r.Err != nil {
				return errors.Wrapf(r.Err, "%s-%s-%s", r.Cipher, r.Mode, r.Padding)
			}
			log.Debugf("%s-%s-%s passed %d cases", r.Cipher, r.Mode, r.Padding, r.Cases)
			return nil
		})
	}
	return results, g.Wait()
}

func init() {
	type SelftestOptions struct {
		Parallel int  `help:"Number of combinations tested concurrently" default:"8"`
		Failed   bool `help:"Only show failed combinations"`
	}
	shellutils.R(&SelftestOptions{}, "selftest", "Round trip every cipher, mode and padding combination", func(args *SelftestOptions) error {
		results, err := runSelftest(args.Parallel)
		table := uitable.New()
		table.AddRow("CIPHER", "MODE", "PADDING", "CASES", "RESULT")
		for _, r := range results {
			if args.Failed && r.Err == nil {
				continue
			}
			status := "ok"
			if r.Err != nil {
				status = r.Err.Error()
			}
			table.AddRow(r.Cipher, r.Mode, r.Padding, r.Cases, status)
		}
		fmt.Println(table)
		if err != nil {
			return err
		}
		fmt.Printf("%d combinations passed\n", len(results))
		return nil
	})
}
