// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	_ "embed"
	"os"
	"time"

	"github.com/untillpro/goutils/cobrau"
	"github.com/untillpro/goutils/logger"

	"github.com/solidcoredata/vdvtab/internal/start"
	"github.com/solidcoredata/vdvtab/vfs"
)

//go:embed version
var version string

// bbolt store used instead of the local disk (flag --bolt)
var boltFile string

func main() {
	if err := execRootCmd(os.Args, version); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func execRootCmd(args []string, ver string) error {
	boltFile = ""
	rootCmd := cobrau.PrepareRootCmd(
		"vdvtab",
		"Reads, checks and converts VDV-452 KeyValue table files",
		args,
		ver,
		newInfoCmd(),
		newCheckCmd(),
		newConvertCmd(),
		newExportCmd(),
		newRmCmd(),
		newGeometryCmd(),
	)
	rootCmd.PersistentFlags().StringVar(&boltFile, "bolt", "", "Use the files stored in this bbolt database instead of the local disk")

	return start.Start(context.Background(), time.Second*5, func(ctx context.Context) error {
		return rootCmd.ExecuteContext(ctx)
	})
}

// withFS runs f on the file system selected by the flags.
func withFS(f func(fsys vfs.FileSystem) error) error {
	if boltFile == "" {
		return f(vfs.Local)
	}
	b, err := vfs.OpenBolt(boltFile)
	if err != nil {
		return err
	}
	err = f(b)
	if cerr := b.Close(); err == nil {
		err = cerr
	}
	return err
}
