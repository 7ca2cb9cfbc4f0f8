package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const logFileName = "cellscribe.log"

// configureLogging tees the standard logger into a rotating log file in dir.
// The returned function restores the previous output and closes the file.
func configureLogging(dir string, opts options) func() {
	logWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    opts.LogMaxSize,
		MaxBackups: opts.LogMaxBackups,
		MaxAge:     opts.LogMaxAge,
		Compress:   opts.LogCompress,
	}

	previous := log.Writer()
	log.SetOutput(io.MultiWriter(os.Stderr, logWriter))

	return func() {
		log.SetOutput(previous)
		logWriter.Close()
	}
}
