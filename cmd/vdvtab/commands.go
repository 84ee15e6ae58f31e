// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/untillpro/goutils/logger"

	"github.com/solidcoredata/vdvtab/config"
	"github.com/solidcoredata/vdvtab/idf"
	"github.com/solidcoredata/vdvtab/internal/start"
	"github.com/solidcoredata/vdvtab/sqlexport"
	"github.com/solidcoredata/vdvtab/vdv"
	"github.com/solidcoredata/vdvtab/vfs"
)

var errCheckFailed = errors.New("check failed")

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Print the header, tables and diagnostics of a file or directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFS(func(fsys vfs.FileSystem) error {
				c, err := vdv.Open(fsys, args[0], nil)
				if err != nil {
					return err
				}
				defer c.Close()
				printInfo(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}
}

func printInfo(w io.Writer, c *vdv.Container) {
	fmt.Fprintf(w, "%s\n", c.Path())
	for _, e := range c.Header() {
		fmt.Fprintf(w, "  %s: %s\n", e.Key, strings.Join(e.Values, ", "))
	}
	for _, t := range c.Tables() {
		fmt.Fprintf(w, "table %s: %d records\n", t.Name(), t.RecordCount())
		for _, a := range t.Attributes() {
			coord := ""
			if a.Coordinate {
				coord = " (coordinate)"
			}
			fmt.Fprintf(w, "  %s %s%s\n", a.Name, a.Kind, coord)
		}
	}
	for _, d := range c.Diagnostics() {
		fmt.Fprintf(w, "%s: %s\n", d.Level, d.Error())
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>...",
		Short: "Read every table of each path and report problems",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFS(func(fsys vfs.FileSystem) error {
				return check(cmd.Context(), cmd.OutOrStdout(), fsys, args)
			})
		},
	}
}

// check opens every path concurrently.
func check(ctx context.Context, w io.Writer, fsys vfs.FileSystem, paths []string) error {
	mu := &sync.Mutex{}
	failed := false
	report := func(path string, dd []vdv.Diagnostic, err error) {
		mu.Lock()
		defer mu.Unlock()
		for _, d := range dd {
			fmt.Fprintf(w, "%s: %s\n", d.Level, d.Error())
		}
		switch {
		case err != nil:
			failed = true
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
		case vdv.HasErrors(dd):
			failed = true
			fmt.Fprintf(w, "FAIL %s\n", path)
		default:
			fmt.Fprintf(w, "ok   %s\n", path)
		}
	}

	runs := make([]func(ctx context.Context) error, len(paths))
	for i, path := range paths {
		path := path
		runs[i] = func(ctx context.Context) error {
			dd, err := checkPath(ctx, fsys, path)
			report(path, dd, err)
			return nil
		}
	}
	if err := start.RunAll(ctx, runs...); err != nil {
		return err
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// checkPath loads the records of every table so value problems are found.
func checkPath(ctx context.Context, fsys vfs.FileSystem, path string) ([]vdv.Diagnostic, error) {
	c, err := vdv.Open(fsys, path, nil)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	for _, t := range c.Tables() {
		if err := ctx.Err(); err != nil {
			return c.Diagnostics(), err
		}
		if _, err := t.Records(); err != nil {
			return c.Diagnostics(), err
		}
	}
	return c.Diagnostics(), nil
}

func newConvertCmd() *cobra.Command {
	var options []string
	cmd := &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "Write every table of src to a new file or directory",
		Long: `Write every table of src to dst. Options are given as KEY=VALUE, for example
SINGLE_FILE=NO to write a directory, PROFILE=VDV-452 or HEADER_SRC=name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := config.Parse(options)
			if err != nil {
				return err
			}
			return withFS(func(fsys vfs.FileSystem) error {
				return convert(fsys, args[0], args[1], opts)
			})
		},
	}
	cmd.Flags().StringArrayVarP(&options, "option", "o", nil, "Creation option KEY=VALUE, may be repeated")
	return cmd
}

func convert(fsys vfs.FileSystem, src, dst string, opts config.Options) error {
	in, err := vdv.Open(fsys, src, nil)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := vdv.Create(fsys, dst, opts)
	if err != nil {
		return err
	}
	if err := vdv.Copy(out, in, nil); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	logger.Verbose("converted", in.TableCount(), "tables from", src, "to", dst)
	return nil
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-sqlite <src> <db>",
		Short: "Export every table of src into an SQLite database",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFS(func(fsys vfs.FileSystem) error {
				c, err := vdv.Open(fsys, args[0], nil)
				if err != nil {
					return err
				}
				defer c.Close()
				return sqlexport.Export(cmd.Context(), c, args[1])
			})
		},
	}
}

func newRmCmd() *cobra.Command {
	var recurse, simulate, force bool
	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Remove a file, or a directory with -r",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if vfs.Clean(path).IsRoot() && !force && !simulate {
				return fmt.Errorf("refusing to remove %s without --force", path)
			}
			var sim func(op, path string)
			if simulate {
				w := cmd.OutOrStdout()
				sim = func(op, path string) {
					fmt.Fprintf(w, "%s %s\n", op, path)
				}
			}
			return withFS(func(fsys vfs.FileSystem) error {
				return vfs.RemoveAll(fsys, path, recurse, sim)
			})
		},
	}
	cmd.Flags().BoolVarP(&recurse, "recursive", "r", false, "Remove directories and their contents")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Print what would be removed")
	cmd.Flags().BoolVar(&force, "force", false, "Allow removing the root directory")
	return cmd
}

func newGeometryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geometry <path>",
		Short: "Print the points and lines of a file as well-known text",
		Long: `Print the node points, link lines and link coordinates of an IDF file, or the
point of every record with a longitude and latitude attribute.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFS(func(fsys vfs.FileSystem) error {
				c, err := vdv.Open(fsys, args[0], nil)
				if err != nil {
					return err
				}
				defer c.Close()
				return printGeometry(cmd.OutOrStdout(), c)
			})
		},
	}
}

func printGeometry(w io.Writer, c *vdv.Container) error {
	if idf.IsNetwork(c) {
		n, err := idf.Read(c)
		if err != nil {
			return err
		}
		for _, nd := range n.Nodes {
			fmt.Fprintf(w, "node %d: %s\n", nd.ID, nd.Point.WKT())
		}
		for _, l := range n.Links {
			fmt.Fprintf(w, "link %d: %s\n", l.ID, l.WKT())
		}
		for _, sp := range n.ShapePoints {
			fmt.Fprintf(w, "link %d point %d: %s\n", sp.LinkID, sp.Count, sp.Point.WKT())
		}
		return nil
	}
	for _, t := range c.Tables() {
		recs, err := t.Records()
		if err != nil {
			return err
		}
		for i, r := range recs {
			lon, lat, err := r.Position()
			if errors.Is(err, vdv.ErrNotFound) {
				break
			}
			if err != nil {
				logger.Verbose(t.Name(), "record", i, err)
				continue
			}
			fmt.Fprintf(w, "%s %d: %s\n", t.Name(), i, idf.Point{X: lon, Y: lat}.WKT())
		}
	}
	return nil
}
