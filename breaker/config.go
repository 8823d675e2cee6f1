// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Config holds breaker's resolved settings, following kcptun's pattern of a
// plain struct populated from CLI flags and optionally overridden by a JSON
// file (the "-c" flag).
type Config struct {
	Table    string `json:"table"`
	Recovery bool   `json:"recovery"`
	Binary   bool   `json:"binary"`
	Log      string `json:"log"`
	Quiet    bool   `json:"quiet"`
}

// parseJSONConfig overrides config's fields from a JSON file, exactly as
// kcptun's client/server "-c" flag does.
func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "os.Open()")
	}
	defer file.Close()

	return errors.Wrap(json.NewDecoder(file).Decode(config), "json.Decode()")
}
