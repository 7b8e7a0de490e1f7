// Copyright 2026 yubo. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// go install github.com/yubo/staticserver
package main

import (
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/yubo/staticserver/config"
	"github.com/yubo/staticserver/server"
)

// usage: PORT=8080 staticserver

type options struct {
	envFile string
}

func main() {
	err := newRootCmd().Execute()
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "staticserver",
		Short:         "staticserver serves the directory it is installed in over http",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	addFlags(cmd.Flags(), opts)
	return cmd
}

func addFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVar(&opts.envFile, "env-file", "", "dotenv file read before looking up PORT")

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)
}

func run(opts *options) error {
	lookup, err := config.LoadEnvironment(opts.envFile)
	if err != nil {
		return err
	}

	root, err := config.ExecutableDir()
	if err != nil {
		return err
	}

	s, err := server.New(config.New(root, lookup))
	if err != nil {
		return err
	}
	return s.ListenAndServe()
}
