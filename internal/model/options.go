package model

import (
	"os"
	"time"
)

// defaultGenerator names the tool in invocation metadata when the caller
// does not override it.
const defaultGenerator = "docforge"

// Options configures the behaviour of the Assembler. Options are constructed
// by the public adapter in pkg/model and passed into New.
type Options struct {
	Clock      func() time.Time
	Normalizer *Normalizer
	Generator  string
	WorkDir    string
}

func defaultOptions() Options {
	workdir, err := os.Getwd()
	if err != nil {
		workdir = "."
	}
	return Options{
		Clock:      time.Now,
		Normalizer: NewNormalizer(),
		Generator:  defaultGenerator,
		WorkDir:    workdir,
	}
}
