package main

import (
	"context"
	"fmt"

	"golang.org/x/text/language"

	"github.com/gogpu/hellowindow/media"
)

func runProbe(_ context.Context, e *env, args []string) error {
	if len(args) < 1 {
		fmt.Fprintln(e.stdout, "ERROR: No input file.")
		return media.ErrNoInput
	}
	r, err := media.Probe(args[0])
	if err != nil {
		return err
	}
	return r.Print(e.stdout, language.English)
}
