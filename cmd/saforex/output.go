package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	apierr "github.com/saforex/saforex-go/internal/errors"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	labelColor  = color.New(color.FgYellow)
	liveColor   = color.New(color.FgGreen, color.Bold)
	errColor    = color.New(color.FgRed)
)

// printJSON renders v as indented JSON on stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// printHeader prints a section heading.
func printHeader(format string, args ...any) {
	headerColor.Printf(format+"\n", args...)
}

// fmtTime renders a timestamp compactly in local time.
func fmtTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// deref renders an optional string.
func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// parseID validates a row id argument before any remote call is made.
func parseID(arg string) (string, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return "", apierr.Validation("invalid id: " + arg)
	}
	return id.String(), nil
}
