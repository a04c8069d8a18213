package main

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/codecrafters-io/bencode-decoder-go/internal/bencode"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage of %s:\n", os.Args[0])
	fmt.Fprintln(w, "  decode <value>          decode one bencoded value and print it as JSON")
	fmt.Fprintln(w, "  inspect <values>        print every bencoded value in the argument in debug form")
	fmt.Fprintln(w, "  info <file.torrent>     print the tracker, length, info hash and piece hashes")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment: %s (default %d), %s (default false)\n", envMaxDepth, bencode.DefaultMaxDepth, envStrict)
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		usage(os.Stdout)
		return
	}

	dec, err := decoderFromEnv()
	if err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	command := os.Args[1]
	if len(os.Args) < 3 {
		if command != "decode" && command != "inspect" && command != "info" {
			fmt.Println("Unknown command: " + command)
			os.Exit(1)
		}
		usage(os.Stdout)
		os.Exit(2)
	}
	arg := os.Args[2]

	if command == "decode" {
		if err := decode(os.Stdout, dec, arg); err != nil {
			fail(logger, "decode failed", err)
		}
	} else if command == "inspect" {
		if err := inspect(os.Stdout, dec, arg); err != nil {
			fail(logger, "inspect failed", err)
		}
	} else if command == "info" {
		if err := info(os.Stdout, dec, arg); err != nil {
			fail(logger, "info failed", err, zap.String("file", arg))
		}
	} else {
		fmt.Println("Unknown command: " + command)
		os.Exit(1)
	}
}
