package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/codecrafters-io/bencode-decoder-go/internal/bencode"
	"github.com/codecrafters-io/bencode-decoder-go/internal/metainfo"
)

func decode(w io.Writer, dec *bencode.Decoder, bencodedValue string) error {
	decoded, err := dec.Decode([]byte(bencodedValue))
	if err != nil {
		return err
	}

	jsonOutput, err := json.Marshal(decoded.Native())
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(jsonOutput))
	return nil
}

func inspect(w io.Writer, dec *bencode.Decoder, bencodedValues string) error {
	values, err := dec.DecodeAll([]byte(bencodedValues))
	if err != nil {
		return err
	}

	for _, v := range values {
		fmt.Fprintln(w, v.String())
	}
	return nil
}

func info(w io.Writer, dec *bencode.Decoder, fileName string) error {
	fileContent, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	m, err := metainfo.ParseWith(dec, fileContent)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Tracker URL: %s\n", m.Announce)
	fmt.Fprintf(w, "Name: %s\n", m.Name)
	fmt.Fprintf(w, "Length: %d\n", m.Length)
	fmt.Fprintf(w, "Info Hash: %s\n", m.InfoHashHex())
	fmt.Fprintf(w, "Piece Length: %d\n", m.PieceLength)
	fmt.Fprintln(w, "Piece Hashes:")
	for _, piece := range m.PieceHashes() {
		fmt.Fprintln(w, piece)
	}
	for _, f := range m.Files {
		fmt.Fprintf(w, "File: %s (%d bytes)\n", joinPath(f.Path), f.Length)
	}
	return nil
}
