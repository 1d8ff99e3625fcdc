package output

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	json "github.com/json-iterator/go"

	"github.com/followme/attendance-cli/pkg/config"
)

// Format represents the output format type
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var (
	Bold    = color.New(color.Bold)
	success = color.New(color.FgGreen)
	errc    = color.New(color.FgRed)
	info    = color.New(color.FgCyan)
	warning = color.New(color.FgYellow)
)

// GetFormat returns the configured output format
func GetFormat() Format {
	if config.GetString("output.format") == "json" {
		return FormatJSON
	}
	return FormatText
}

// ValidateFormat checks if format is valid
func ValidateFormat(format string) bool {
	return format == "json" || format == "text"
}

// PrintJSON writes data as indented JSON
func PrintJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// PrintTable writes rows as an aligned table
func PrintTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

// PrintSuccess prints a success message
func PrintSuccess(msg string, args ...interface{}) {
	success.Printf(msg+"\n", args...)
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	errc.Printf("Error: "+msg+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(msg string, args ...interface{}) {
	info.Printf(msg+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	warning.Printf("Warning: "+msg+"\n", args...)
}
