package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urbanatlas/greenspace/internal/gdb"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input  string `short:"i" long:"in" description:"Path to a .fgb feature class" required:"true"`
	Output string `short:"o" long:"out" description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	fc, err := gdb.ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading feature class: %v\n", err)
		os.Exit(1)
	}

	var outputData []byte
	if opts.Format == "yaml" {
		// Round-trip through JSON so the GeoJSON field names survive.
		raw, err := json.Marshal(fc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
			os.Exit(1)
		}
		var doc map[string]interface{}
		if err := json.Unmarshal(raw, &doc); err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
			os.Exit(1)
		}
		outputData, err = yaml.Marshal(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
			os.Exit(1)
		}
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
			os.Exit(1)
		}
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Converted %d features to %s (format: %s)\n",
			len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}
