/*
 * KeybDOS - Main process.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// KeybDOS loads DOS keyboard layout and codepage files and runs the
// translation engine on a stand alone host machine, driven from an
// interactive console.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/KeybDOS/command/reader"
	config "github.com/rcornwell/KeybDOS/config/configparser"
	"github.com/rcornwell/KeybDOS/config/debugconfig"
	"github.com/rcornwell/KeybDOS/emu/session"
	"github.com/rcornwell/KeybDOS/emu/standalone"
	logger "github.com/rcornwell/KeybDOS/util/logger"
)

var Logger *slog.Logger

// Initial layout and codepage collected from the configuration file.
type keybConfig struct {
	layout   string
	codepage uint16
	cpFile   string
}

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optLayout := getopt.StringLong("layout", 'k', "", "Initial keyboard layout")
	optCodepage := getopt.StringLong("codepage", 'p', "", "Initial codepage")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var file *os.File
	if *optLogFile != "" {
		file, _ = os.Create(*optLogFile)
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger = slog.New(logger.NewHandler(file, &slog.HandlerOptions{Level: programLevel}))
	slog.SetDefault(Logger)

	Logger.Info("KeybDOS started")

	hst := standalone.New(".")
	sess := session.New(hst, hst, hst, hst, hst)

	// Register configuration handlers before the file is read.
	initial := keybConfig{layout: "none", codepage: 437, cpFile: "auto"}
	config.RegisterModel("KEYB", func(value string, options []config.Option) error {
		initial.layout = value
		for i, opt := range options {
			switch i {
			case 0:
				cp, err := strconv.ParseUint(opt.Name, 10, 16)
				if err != nil {
					return fmt.Errorf("codepage must be a number: %s", opt.Name)
				}
				initial.codepage = uint16(cp)
			case 1:
				initial.cpFile = opt.Name
			default:
				return fmt.Errorf("keyb takes layout, codepage and file only")
			}
		}
		return nil
	})
	config.RegisterOption("PATH", func(value string) error {
		hst.AddPath(value)
		return nil
	})
	debugconfig.RegisterTarget("KEYB", sess.Keyboard().Debug)

	if *optConfig != "" {
		if _, err := os.Stat(*optConfig); os.IsNotExist(err) {
			Logger.Error("Configuration file " + *optConfig + " can't be found")
			os.Exit(0)
		}
		if err := config.LoadConfigFile(*optConfig); err != nil {
			Logger.Error(err.Error())
			os.Exit(0)
		}
	}

	// Command line flags override the configuration file.
	if *optLayout != "" {
		initial.layout = *optLayout
	}
	if *optCodepage != "" {
		cp, err := strconv.ParseUint(*optCodepage, 10, 16)
		if err != nil {
			Logger.Error("Codepage must be a number: " + *optCodepage)
			os.Exit(0)
		}
		initial.codepage = uint16(cp)
	}

	if initial.layout != "none" {
		status := sess.Load(initial.layout, initial.codepage, initial.cpFile)
		if status != session.KeybNoError {
			Logger.Warn("Layout " + initial.layout + " not loaded: " + status.String())
		}
	}

	reader.ConsoleReader(sess, hst)
	sess.Shutdown()
}
