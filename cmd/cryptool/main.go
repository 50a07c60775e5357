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


package main

import (
	"fmt"
	"os"

	"yunion.io/x/log"
	"yunion.io/x/pkg/util/shellutils"
	"yunion.io/x/pkg/util/version"
	"yunion.io/x/structarg"

	_ "yunion.io/x/cryptool/cmd/cryptool/shell"
	"yunion.io/x/cryptool/pkg/util/cryptoprofile"
	"yunion.io/x/cryptool/pkg/util/fileutils2"
)

type BaseOptions struct {
	Help       bool   `help:"Show help" short-token:"h"`
	Debug      bool   `help:"Show debug information"`
	Version    bool   `help:"Show version"`
	Config     string `help:"Configuration file, searched as cryptool.conf in ./etc and /etc/yunion by default"`
	Profiles   string `help:"YAML file with extra cipher profiles"`
	SUBCOMMAND string `help:"cryptool subcommand" subcommand:"true"`
}

func showErrorAndExit(err error) {
	log.Errorf("%s", err)
	os.Exit(1)
}

func getSubcommandParser() (*structarg.ArgumentParser, error) {
	parser, err := structarg.NewArgumentParser(
		&BaseOptions{},
		"cryptool",
		"Block cipher modes, padding schemes, passphrase sealing and fernet tokens",
		`See "cryptool help COMMAND" for help on a specific command.`,
	)
	if err != nil {
		return nil, err
	}
	subcmd := parser.GetSubcommand()
	if subcmd == nil {
		return nil, fmt.Errorf("No subcommand argument.")
	}
	type HelpOptions struct {
		SUBCOMMAND string `help:"sub-command name"`
	}
	shellutils.R(&HelpOptions{}, "help", "Show help of a subcommand", func(args *HelpOptions) error {
		helpstr, e := subcmd.SubHelpString(args.SUBCOMMAND)
		if e != nil {
			return e
		} else {
			fmt.Print(helpstr)
			return nil
		}
	})
	for _, v := range shellutils.CommandTable {
		_, e := subcmd.AddSubParser(v.Options, v.Command, v.Desc, v.Callback)
		if e != nil {
			return nil, e
		}
	}
	return parser, nil
}

func main() {
	parser, err := getSubcommandParser()
	if err != nil {
		showErrorAndExit(err)
	}

	err = parser.ParseArgs(os.Args[1:], false)
	options := parser.Options().(*BaseOptions)

	if options.Help {
		fmt.Print(parser.HelpString())
		return
	}
	if options.Version {
		fmt.Println(version.GetJsonString())
		return
	}

	if len(options.Config) == 0 {
		options.Config = fileutils2.FindFile("cryptool.conf", "./etc", "/etc/yunion")
	}
	if len(options.Config) > 0 {
		if e := parser.ParseFile(options.Config); e != nil {
			showErrorAndExit(e)
		}
	}

	logLevel := "info"
	if options.Debug {
		logLevel = "debug"
	}
	log.SetLogLevelByString(log.Logger(), logLevel)

	subcmd := parser.GetSubcommand()
	subparser := subcmd.GetSubParser()
	if err != nil {
		if subparser != nil {
			fmt.Print(subparser.Usage())
		} else {
			fmt.Print(parser.Usage())
		}
		showErrorAndExit(err)
		return
	}

	if err := cryptoprofile.Init(options.Profiles); err != nil {
		showErrorAndExit(err)
	}

	err = subcmd.Invoke(subparser.Options())
	if err != nil {
		showErrorAndExit(err)
	}
}
