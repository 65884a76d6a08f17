package cmd

import (
	"fmt"
	"log"
)

var (
	// globals used to patch over calls to log.Fatal() during test

	logFatalln = log.Fatalln
	logFatalf  = log.Fatalf
)

func wrapFatalln(msg string, err error) {
	if err == nil {
		logFatalln(msg)
	} else {
		logFatalf("%v", fmt.Errorf("%s: %w", msg, err))
	}
}
