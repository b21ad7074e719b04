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

// Package logger builds the zap loggers used by the mmx command.
package logger

import (
	"flag"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config describes where the dispatcher's logs go and at which level.
type Config struct {
	// Path is "stderr", "stdout", "/dev/null" or a file path.
	Path string `yaml:"path"`
	// If Path is a file, Mode will determine how the log file is managed.
	// FileModeAppend is the default if value is undefined.
	Mode FileMode `yaml:"mode,omitempty"`
	// Level is the minimum level written; debug shows every inexact
	// resolution and cache invalidation.
	Level zapcore.Level `yaml:"level"`
	// DevMode makes DPanic logs panic.
	DevMode bool `yaml:"devmode"`
	// Rotation applies when Mode is FileModeRotate.
	Rotation Rotation `yaml:"rotation"`
}

// NewCore opens the sink named by conf and returns a JSON core over it.
func NewCore(conf Config) (zapcore.Core, error) {
	w, err := OpenFile(conf.Path, conf.Mode, conf.Rotation)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(jsonEncoder(), w, conf.Level), nil
}

// New returns a logger writing JSON lines according to conf.
func New(conf Config) (*zap.Logger, error) {
	core, err := NewCore(conf)
	if err != nil {
		return nil, err
	}
	var opts []zap.Option
	if conf.DevMode {
		opts = append(opts, zap.Development())
	}
	return zap.New(core, opts...), nil
}

func jsonEncoder() zapcore.Encoder {
	conf := zap.NewProductionEncoderConfig()
	conf.CallerKey = ""
	return zapcore.NewJSONEncoder(conf)
}

// Flags binds a Config to command-line flags.
type Flags struct {
	Config Config
}

// SetFlags registers the -log.* flags on fs. The level defaults to warn so
// that resolution traces stay off unless asked for.
func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(&f.Config.DevMode, "log.devmode", false, "development mode (if enabled dpanic level logs will cause a panic)")
	f.Config.Level = zap.WarnLevel
	fs.Var(&f.Config.Level, "log.level", "logging level")
	fs.StringVar(&f.Config.Path, "log.path", "stderr", "path to send logs (values: stderr, stdout, path in file system)")
	f.Config.Mode = FileModeAppend
	fs.Var(&f.Config.Mode, "log.filemode", "logger file write mode (values: append, truncate, rotate)")
}

// Open builds the logger described by the parsed flags.
func (f *Flags) Open() (*zap.Logger, error) {
	return New(f.Config)
}
