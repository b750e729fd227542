package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/RichardKnop/tinysql/internal/pkg/logging"
	"github.com/RichardKnop/tinysql/internal/tinysql"
)

const (
	cliName string = "tinysql"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <db file>\n", cliName)
		os.Exit(1)
	}
	dbFileName := os.Args[1]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logOpts, err := logOptionsFromEnv()
	if err != nil {
		panic(err)
	}

	logger, logCloser, err := logging.NewLogger(logOpts)
	if err != nil {
		panic(err)
	}
	defer logCloser.Close()
	defer logger.Sync() // flushes buffer, if any

	aTable, err := tinysql.Open(ctx, dbFileName, tinysql.WithLogger(logger))
	if err != nil {
		logger.Error("open table failed", zap.String("path", dbFileName), zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
	logger.Info("table opened", zap.String("path", dbFileName))

	aRepl := &repl{
		table:  aTable,
		out:    os.Stdout,
		logger: logger,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	exitCode := 0
	if err := aRepl.run(ctx, os.Stdin); err != nil {
		logger.Error("reading input failed", zap.Error(err))
		exitCode = 1
	}

	// The REPL has returned, nothing else uses the table
	if err := aTable.Close(context.Background()); err != nil {
		logger.Error("close table failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error closing table: %s\n", err)
		exitCode = 1
	}

	logCloser.Close()
	logger.Sync()
	os.Exit(exitCode)
}

func logOptionsFromEnv() (logging.Options, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	l, err := logging.ParseLevel(level)
	if err != nil {
		return logging.Options{}, err
	}

	opts := logging.Options{
		Level:      l,
		FileName:   os.Getenv("LOG_FILE"),
		MaxSizeMB:  100,
		MaxBackups: 3,
	}

	if v := os.Getenv("LOG_MAX_SIZE_MB"); v != "" {
		if opts.MaxSizeMB, err = strconv.Atoi(v); err != nil {
			return logging.Options{}, err
		}
	}
	if v := os.Getenv("LOG_MAX_BACKUPS"); v != "" {
		if opts.MaxBackups, err = strconv.Atoi(v); err != nil {
			return logging.Options{}, err
		}
	}

	return opts, nil
}
