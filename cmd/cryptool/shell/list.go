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
	"strings"

	"github.com/gosuri/uitable"

	"yunion.io/x/pkg/util/shellutils"

	"yunion.io/x/cryptool/pkg/util/blockcipher"
	"yunion.io/x/cryptool/pkg/util/blockmode"
	"yunion.io/x/cryptool/pkg/util/cryptoprofile"
	"yunion.io/x/cryptool/pkg/util/padding"
)

func keySizesString(spec *blockcipher.SCipherSpec) string {
	if len(spec.KeySizes) == 0 {
		return fmt.Sprintf("%d-%d", spec.MinKeySize, spec.MaxKeySize)
	}
	sizes := make([]string, len(spec.KeySizes))
	for i, size := range spec.KeySizes {
		sizes[i] = fmt.Sprintf("%d", size)
	}
	return strings.Join(sizes, ",")
}

func cipherTable() (*uitable.Table, error) {
	table := uitable.New()
	table.AddRow("NAME", "BLOCK_SIZE", "KEY_SIZES", "DEFAULT_KEY_SIZE", "LIBRARY", "HW_ACCEL")
	for _, name := range blockcipher.CipherNames() {
		spec, err := blockcipher.GetCipherSpec(name)
		if err != nil {
			return nil, err
		}
		table.AddRow(spec.Name, spec.BlockSize, keySizesString(spec), spec.DefaultKeySize, spec.Library, spec.HardwareAccelerated)
	}
	return table, nil
}

func modeTable() *uitable.Table {
	table := uitable.New()
	table.AddRow("NAME", "REQUIRES_IV", "STREAM")
	for _, name := range blockmode.ModeNames() {
		mode, _ := blockmode.GetMode(name, nil)
		table.AddRow(name, mode.RequiresIV(), blockmode.IsStreamMode(name))
	}
	return table
}

func paddingTable() *uitable.Table {
	table := uitable.New()
	table.AddRow("NAME", "DEFAULT")
	for _, name := range padding.PaddingNames() {
		table.AddRow(name, name == padding.PADDING_DEFAULT)
	}
	return table
}

func profileTable() *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("NAME", "CIPHER", "KEY_SIZE", "MODE", "PADDING", "DESCRIPTION")
	for _, p := range cryptoprofile.List() {
		table.AddRow(p.Name, p.Cipher, p.KeySize, p.Mode, p.Padding, p.Description)
	}
	return table
}

func init() {
	type ListOptions struct{}
	shellutils.R(&ListOptions{}, "list-ciphers", "List supported block ciphers", func(args *ListOptions) error {
		table, err := cipherTable()
		if err != nil {
			return err
		}
		fmt.Println(table)
		return nil
	})

	shellutils.R(&ListOptions{}, "list-modes", "List block cipher modes of operation", func(args *ListOptions) error {
		fmt.Println(modeTable())
		return nil
	})

	shellutils.R(&ListOptions{}, "list-paddings", "List padding schemes", func(args *ListOptions) error {
		fmt.Println(paddingTable())
		return nil
	})

	shellutils.R(&ListOptions{}, "list-profiles", "List cipher profiles", func(args *ListOptions) error {
		fmt.Println(profileTable())
		return nil
	})
}
