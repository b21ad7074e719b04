/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"dirpx.dev/mmx"
	"dirpx.dev/mmx/apis"
	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/handler"
	"dirpx.dev/mmx/hierarchy"
	"dirpx.dev/mmx/resolver"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultScenario []byte

// Scenario is a declarative dispatch setup: a hierarchy, constant handlers
// and the queries to evaluate against them.
type Scenario struct {
	Config  apis.Config `yaml:"config"`
	Root    string      `yaml:"root"`
	Types   []TypeDecl  `yaml:"types"`
	Methods []Method    `yaml:"methods"`
	Queries [][2]string `yaml:"queries"`
}

type TypeDecl struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

type Method struct {
	First  string `yaml:"first"`
	Second string `yaml:"second"`
	Result int    `yaml:"result"`
}

// ParseScenario decodes a YAML scenario. Config keys that are absent keep
// their defaults.
func ParseScenario(b []byte) (*Scenario, error) {
	sc := &Scenario{Config: config.DefaultConfig()}
	if err := yaml.Unmarshal(b, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// LoadScenario reads the scenario at path, or the built-in one if path is empty.
func LoadScenario(path string) (*Scenario, error) {
	if path == "" {
		return ParseScenario(defaultScenario)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(b)
}

// value is a scenario argument; it classifies through apis.Typed.
type value struct {
	id apis.TypeID
}

func (v value) TypeID() apis.TypeID {
	return v.id
}

// Build declares the hierarchy and registers the handlers. Every failure
// is reported, not just the first.
func (sc *Scenario) Build(logger *zap.Logger, reg prometheus.Registerer) (*mmx.Dispatcher, error) {
	h := hierarchy.New(sc.Root)
	var err error
	for _, t := range sc.Types {
		_, terr := h.Add(t.Name, t.Parent)
		err = multierr.Append(err, terr)
	}
	if err != nil {
		return nil, err
	}
	d := mmx.New(h,
		mmx.WithConfig(sc.Config),
		mmx.WithLogger(logger),
		mmx.WithRegisterer(reg),
	)
	for _, m := range sc.Methods {
		first, ferr := h.ID(m.First)
		second, serr := h.ID(m.Second)
		if merr := multierr.Combine(ferr, serr); merr != nil {
			err = multierr.Append(err, merr)
			continue
		}
		err = multierr.Append(err, d.RegisterHandler(handler.Const(apis.NewSignature(first, second), m.Result)))
	}
	return d, err
}

// Run evaluates every query and writes one line per query to w.
// Resolution failures are reported by kind; any other error aborts.
func (sc *Scenario) Run(w io.Writer, d *mmx.Dispatcher) error {
	h := d.Hierarchy()
	for _, q := range sc.Queries {
		first, ok := h.Lookup(q[0])
		if !ok {
			return fmt.Errorf("%w: %q", hierarchy.ErrUnknownType, q[0])
		}
		second, ok := h.Lookup(q[1])
		if !ok {
			return fmt.Errorf("%w: %q", hierarchy.ErrUnknownType, q[1])
		}
		label := strings.ToLower(q[0]) + " vs " + strings.ToLower(q[1])
		n, err := d.Call(value{first}, value{second})
		switch kind := resolver.KindOf(err); {
		case err == nil:
			fmt.Fprintf(w, "%s => %d\n", label, n)
		case kind != 0:
			fmt.Fprintf(w, "%s => %s signature\n", label, kind)
		default:
			return err
		}
	}
	return nil
}
