package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type outputFmt string

const (
	outputYAML outputFmt = "yaml"
	outputJSON outputFmt = "json"
)

// currentOutput is set by the root command's --output flag.
var currentOutput outputFmt = outputYAML

func setOutputFormat(format string) {
	switch format {
	case "json":
		currentOutput = outputJSON
	default:
		currentOutput = outputYAML
	}
}

// output writes data to stdout in the configured format.
func output(data any) error {
	return outputTo(os.Stdout, currentOutput, data)
}

func outputTo(w io.Writer, format outputFmt, data any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
