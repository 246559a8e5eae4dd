package helpers

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// SuccessColor for successful operations
	SuccessColor = color.New(color.FgGreen, color.Bold)

	// ErrorColor for error messages
	ErrorColor = color.New(color.FgRed, color.Bold)

	// WarningColor for warning messages
	WarningColor = color.New(color.FgYellow, color.Bold)

	// InfoColor for informational messages
	InfoColor = color.New(color.FgCyan, color.Bold)

	// TitleColor for titles and headers
	TitleColor = color.New(color.FgMagenta, color.Bold)
)

// Console prints coloured, emoji-prefixed lines to a writer
type Console struct {
	out io.Writer
}

// NewConsole creates a console writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// Stdout is the console used by the package-level Print helpers
var Stdout = NewConsole(os.Stdout)

func (c *Console) Success(format string, args ...interface{}) {
	SuccessColor.Fprintf(c.out, "✅ "+format+"\n", args...)
}

func (c *Console) Error(format string, args ...interface{}) {
	ErrorColor.Fprintf(c.out, "❌ "+format+"\n", args...)
}

func (c *Console) Warning(format string, args ...interface{}) {
	WarningColor.Fprintf(c.out, "⚠️  "+format+"\n", args...)
}

func (c *Console) Info(format string, args ...interface{}) {
	InfoColor.Fprintf(c.out, "ℹ️  "+format+"\n", args...)
}

func (c *Console) Title(format string, args ...interface{}) {
	TitleColor.Fprintf(c.out, "🎯 "+format+"\n", args...)
}

// Separator prints a visual separator
func (c *Console) Separator() {
	fmt.Fprintln(c.out, strings.Repeat("─", 80))
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Stdout.Success(format, args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Stdout.Error(format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Stdout.Warning(format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Stdout.Info(format, args...)
}

// PrintTitle prints a title
func PrintTitle(format string, args ...interface{}) {
	Stdout.Title(format, args...)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	Stdout.Separator()
}

// IsTerminal checks if output is going to a terminal
func IsTerminal() bool {
	return isCharDevice(os.Stdout)
}

func isCharDevice(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
