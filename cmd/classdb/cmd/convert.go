/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ssargent/classdb/pkg/codec"
	"github.com/ssargent/classdb/pkg/files"
	"github.com/ssargent/classdb/pkg/store"
)

// File formats understood by convert
const (
	formatTSV = "tsv"
	formatCSV = "csv"
	formatSQL = "sql"
)

var errSQLInput = errors.New("SQL scripts cannot be read back")

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert a record file between formats",
	Long: `Read records from one file and write them to another. The format of each
file follows its extension: .csv for CSV, .sql for an SQL script (output
only) and anything else for the tab-separated database format. A trailing
.gz or .zst compresses or decompresses the file.

Examples:
  classdb convert P1_1-CMS.txt students.csv
  classdb convert students.csv.gz P1_1-CMS.txt
  classdb convert P1_1-CMS.txt dump.sql`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		if container == nil {
			return fmt.Errorf("dependency container not initialized")
		}

		result, err := convertFile(container.Resolver(cfg.DataDir), args[0], args[1])
		if err != nil {
			return err
		}

		cmd.Printf("Converted %d record(s) from %s to %s (%s).\n",
			result.Report.Imported, result.Input, result.Output, humanize.Bytes(uint64(result.Size)))
		if skipped := result.Report.Skipped(); skipped > 0 {
			cmd.Printf("Skipped %d duplicate id(s) and %d malformed line(s).\n",
				len(result.Report.Duplicates), len(result.Report.Malformed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

// formatFor picks the file format from the name, ignoring compression
func formatFor(name string) string {
	switch strings.ToLower(filepath.Ext(files.StripCompression(name))) {
	case ".csv":
		return formatCSV
	case ".sql":
		return formatSQL
	default:
		return formatTSV
	}
}

type conversion struct {
	Input  string
	Output string
	Size   int64
	Report *codec.ImportReport
}

func convertFile(res *files.Resolver, input, output string) (*conversion, error) {
	inFormat := formatFor(input)
	if inFormat == formatSQL {
		return nil, fmt.Errorf("%s: %w", input, errSQLInput)
	}

	records := store.NewStore()
	var report *codec.ImportReport
	inPath, err := res.ReadFile(input, func(r io.Reader) error {
		var err error
		if inFormat == formatCSV {
			report, err = codec.ReadCSV(r, records)
		} else {
			report, err = codec.ReadTSV(r, records)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}

	outPath, size, err := res.WriteFile(output, func(w io.Writer) error {
		switch formatFor(output) {
		case formatCSV:
			return codec.WriteCSV(w, records.Records())
		case formatSQL:
			return codec.WriteSQL(w, records.Records())
		default:
			return codec.WriteTSV(w, records.Records())
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", output, err)
	}

	return &conversion{Input: inPath, Output: outPath, Size: size, Report: report}, nil
}
