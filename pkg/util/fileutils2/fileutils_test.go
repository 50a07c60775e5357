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


package fileutils2

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestFindFile(t *testing.T) {
	empty := t.TempDir()
	withFile := t.TempDir()
	fn := filepath.Join(withFile, "cryptool.conf")
	if err := ioutil.WriteFile(fn, []byte("debug = true\n"), 0600); err != nil {
		t.Fatalf("write %s", err)
	}
	withDir := t.TempDir()
	if err := ioutil.WriteFile(filepath.Join(withDir, "x"), nil, 0600); err != nil {
		t.Fatalf("write %s", err)
	}

	tests := []struct {
		name string
		file string
		dirs []string
		want string
	}{
		{
			name: "found",
			file: "cryptool.conf",
			dirs: []string{empty, withFile},
			want: fn,
		},
		{
			name: "missing",
			file: "cryptool.conf",
			dirs: []string{empty},
			want: "",
		},
		{
			name: "directory is not a file",
			file: filepath.Base(withDir),
			dirs: []string{filepath.Dir(withDir)},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindFile(tt.file, tt.dirs...); got != tt.want {
				t.Errorf("FindFile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	if !IsDir(dir) || IsFile(dir) || !Exists(dir) {
		t.Errorf("%s should be a directory", dir)
	}
	if IsDir(filepath.Join(dir, "none")) || Exists(filepath.Join(dir, "none")) {
		t.Errorf("missing path reported as existing")
	}
}
