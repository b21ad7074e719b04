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
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"dirpx.dev/mmx/config"
	"dirpx.dev/mmx/logger"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type Command struct {
	logFlags logger.Flags
	scenario string
	config   string
	stats    bool
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.logFlags.SetFlags(fs)
	fs.StringVar(&c.scenario, "scenario", "", "path of scenario yaml file (default: built-in Stone/Scissors/Paper)")
	fs.StringVar(&c.config, "config", "", "path of dispatch config yaml file, overrides the scenario's config section")
	fs.BoolVar(&c.stats, "stats", false, "print resolution metrics after the queries")
}

func (c *Command) Run(stdout io.Writer) error {
	log, err := c.logFlags.Open()
	if err != nil {
		return err
	}
	defer log.Sync()

	sc, err := LoadScenario(c.scenario)
	if err != nil {
		return err
	}
	if c.config != "" {
		if sc.Config, err = config.Load(c.config); err != nil {
			return err
		}
	}
	reg := prometheus.NewRegistry()
	d, err := sc.Build(log, reg)
	if err != nil {
		return err
	}
	if err := sc.Run(stdout, d); err != nil {
		return err
	}
	if c.stats {
		return writeStats(stdout, reg)
	}
	return nil
}

// writeStats prints counters and histogram sample counts, one per line.
func writeStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			lines = append(lines, mf.GetName()+labels(m)+" "+sample(mf.GetType(), m))
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func labels(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	var parts []string
	for _, lp := range m.GetLabel() {
		parts = append(parts, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func sample(t dto.MetricType, m *dto.Metric) string {
	switch t {
	case dto.MetricType_COUNTER:
		return fmt.Sprint(m.GetCounter().GetValue())
	case dto.MetricType_HISTOGRAM:
		return fmt.Sprintf("count=%d sum=%g", m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum())
	default:
		return "?"
	}
}

func main() {
	var c Command
	fs := flag.NewFlagSet("mmx", flag.ExitOnError)
	c.SetFlags(fs)
	fs.Parse(os.Args[1:])
	if err := c.Run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
