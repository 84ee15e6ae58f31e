// Copyright 2018 The Solid Core Data Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlexport copies the tables of a container into an SQLite
// database, one SQL table per container table.
package sqlexport

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/untillpro/goutils/logger"

	"github.com/solidcoredata/vdvtab/vdv"
)

// ColumnType returns the SQLite column type used for an attribute kind.
func ColumnType(k vdv.Kind) string {
	switch {
	case k.Type == vdv.KindBoolean:
		return "BOOLEAN"
	case k.IsInteger():
		return "INTEGER"
	case k.Type == vdv.KindNum:
		return "REAL"
	}
	return "TEXT"
}

// Ident quotes an SQL identifier.
func Ident(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL returns the CREATE TABLE statement for t.
func CreateTableSQL(t *vdv.Table) string {
	cols := make([]string, 0, t.AttributeCount())
	for _, a := range t.Attributes() {
		cols = append(cols, Ident(a.Name)+" "+ColumnType(a.Kind))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", Ident(t.Name()), strings.Join(cols, ", "))
}

func insertSQL(t *vdv.Table) string {
	cols := make([]string, 0, t.AttributeCount())
	marks := make([]string, 0, t.AttributeCount())
	for _, a := range t.Attributes() {
		cols = append(cols, Ident(a.Name))
		marks = append(marks, "?")
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", Ident(t.Name()), strings.Join(cols, ", "), strings.Join(marks, ", "))
}

// Export replaces the database at dbPath with the tables of c. Tables
// without attributes are skipped, SQLite has no empty tables.
func Export(ctx context.Context, c *vdv.Container, dbPath string) error {
	if err := os.Remove(dbPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, t := range c.Tables() {
		if err := exportTable(ctx, tx, t); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("table %s: %w", t.Name(), err)
		}
	}
	return tx.Commit()
}

func exportTable(ctx context.Context, tx *sql.Tx, t *vdv.Table) error {
	if t.AttributeCount() == 0 {
		logger.Verbose("sqlexport: skipping table without attributes", t.Name())
		return nil
	}
	recs, err := t.Records()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, CreateTableSQL(t)); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(t))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]interface{}, t.AttributeCount())
	for _, r := range recs {
		for i := range args {
			args[i] = r.At(i).Interface()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	if logger.IsVerbose() {
		logger.Verbose("sqlexport:", t.Name(), len(recs), "rows")
	}
	return nil
}
