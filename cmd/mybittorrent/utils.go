package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/codecrafters-io/bencode-decoder-go/internal/bencode"
)

const (
	envMaxDepth = "BENCODE_MAX_DEPTH"
	envStrict   = "BENCODE_STRICT"
)

func decoderFromEnv() (*bencode.Decoder, error) {
	var opts []bencode.Option

	if v := os.Getenv(envMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envMaxDepth, err)
		}
		opts = append(opts, bencode.WithMaxDepth(n))
	}
	if v := os.Getenv(envStrict); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envStrict, err)
		}
		opts = append(opts, bencode.WithStrict(strict))
	}

	return bencode.NewDecoder(opts...), nil
}

// errorFields describes err for the log, including where decoding stopped.
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var e *bencode.Error
	if errors.As(err, &e) {
		fields = append(fields, zap.Stringer("kind", e.Kind), zap.Int("offset", e.Offset))
	}
	return fields
}

func fail(logger *zap.Logger, msg string, err error, extra ...zap.Field) {
	logger.Fatal(msg, append(errorFields(err), extra...)...)
}

func joinPath(parts []string) string {
	return strings.Join(parts, "/")
}
