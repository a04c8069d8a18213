// Package metainfo reads the summary fields of a .torrent document.
package metainfo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/codecrafters-io/bencode-decoder-go/internal/bencode"
)

const hashLen = sha1.Size

// MetaInfo is the subset of a .torrent document needed to describe it.
type MetaInfo struct {
	Announce    string // tracker url, empty for trackerless torrents
	Name        string
	Length      int64 // total bytes across all files
	PieceLength int64
	Pieces      [][hashLen]byte
	Files       []File // nil in single-file mode
	InfoHash    [hashLen]byte
}

type File struct {
	Length int64
	Path   []string
}

// Parse decodes data with the default decoder.
func Parse(data []byte) (*MetaInfo, error) {
	return ParseWith(bencode.NewDecoder(), data)
}

// ParseWith decodes data with dec. The info hash is taken over the raw bytes
// of the info dictionary, not a re-encoding of it.
func ParseWith(dec *bencode.Decoder, data []byte) (*MetaInfo, error) {
	root, err := dec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode metainfo: %w", err)
	}
	dict, ok := root.(bencode.Dict)
	if !ok {
		return nil, fmt.Errorf("metainfo: top level is %T, want a dictionary", root)
	}

	m := &MetaInfo{}
	if v, ok := dict["announce"]; ok {
		s, ok := v.(bencode.String)
		if !ok {
			return nil, fieldError("announce", "string", v)
		}
		m.Announce = string(s)
	}

	info, ok := dict["info"].(bencode.Dict)
	if !ok {
		return nil, fieldError("info", "dictionary", dict["info"])
	}
	if err := m.fillInfo(info); err != nil {
		return nil, err
	}

	raw, err := rawValue(dec, data, "info")
	if err != nil {
		return nil, err
	}
	m.InfoHash = sha1.Sum(raw)

	return m, nil
}

func (m *MetaInfo) fillInfo(info bencode.Dict) error {
	var err error
	if m.Name, err = stringField(info, "name"); err != nil {
		return err
	}
	if m.PieceLength, err = intField(info, "piece length"); err != nil {
		return err
	}
	if m.PieceLength <= 0 {
		return fmt.Errorf("metainfo: piece length %d is not positive", m.PieceLength)
	}

	pieces, err := stringField(info, "pieces")
	if err != nil {
		return err
	}
	if len(pieces)%hashLen != 0 {
		return fmt.Errorf("metainfo: pieces length %d is not a multiple of %d", len(pieces), hashLen)
	}
	for i := 0; i < len(pieces); i += hashLen {
		var h [hashLen]byte
		copy(h[:], pieces[i:i+hashLen])
		m.Pieces = append(m.Pieces, h)
	}

	if _, single := info["length"]; single {
		m.Length, err = intField(info, "length")
		return err
	}

	files, ok := info["files"].(bencode.List)
	if !ok {
		return fieldError("files", "list", info["files"])
	}
	for i, f := range files {
		fd, ok := f.(bencode.Dict)
		if !ok {
			return fieldError(fmt.Sprintf("files[%d]", i), "dictionary", f)
		}
		file, err := parseFile(fd)
		if err != nil {
			return fmt.Errorf("files[%d]: %w", i, err)
		}
		m.Files = append(m.Files, file)
		m.Length += file.Length
	}
	return nil
}

func parseFile(d bencode.Dict) (File, error) {
	length, err := intField(d, "length")
	if err != nil {
		return File{}, err
	}
	parts, ok := d["path"].(bencode.List)
	if !ok {
		return File{}, fieldError("path", "list", d["path"])
	}
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		s, ok := p.(bencode.String)
		if !ok {
			return File{}, fieldError("path", "list of strings", p)
		}
		path = append(path, string(s))
	}
	return File{Length: length, Path: path}, nil
}

// PieceHashes returns the piece hashes hex encoded.
func (m *MetaInfo) PieceHashes() []string {
	out := make([]string, 0, len(m.Pieces))
	for _, p := range m.Pieces {
		out = append(out, hex.EncodeToString(p[:]))
	}
	return out
}

func (m *MetaInfo) InfoHashHex() string {
	return hex.EncodeToString(m.InfoHash[:])
}

// rawValue returns the encoded bytes of key's value in the top-level
// dictionary of data. data must already be known to decode as a dictionary.
// With duplicate keys the last occurrence wins, matching the decoder.
func rawValue(dec *bencode.Decoder, data []byte, key string) ([]byte, error) {
	var raw []byte
	rest := data[1:]
	for len(rest) > 0 && rest[0] != 'e' {
		k, afterKey, err := dec.DecodeOne(rest)
		if err != nil {
			return nil, err
		}
		_, afterValue, err := dec.DecodeOne(afterKey)
		if err != nil {
			return nil, err
		}
		if s, ok := k.(bencode.String); ok && string(s) == key {
			raw = afterKey[:len(afterKey)-len(afterValue)]
		}
		rest = afterValue
	}
	if raw == nil {
		return nil, fmt.Errorf("metainfo: key %q not found", key)
	}
	return raw, nil
}

func stringField(d bencode.Dict, key string) (string, error) {
	s, ok := d[key].(bencode.String)
	if !ok {
		return "", fieldError(key, "string", d[key])
	}
	return string(s), nil
}

func intField(d bencode.Dict, key string) (int64, error) {
	n, ok := d[key].(bencode.Integer)
	if !ok {
		return 0, fieldError(key, "integer", d[key])
	}
	return int64(n), nil
}

func fieldError(key, want string, got bencode.Value) error {
	if got == nil {
		return fmt.Errorf("metainfo: missing %s field %q", want, key)
	}
	return fmt.Errorf("metainfo: field %q is %T, want %s", key, got, want)
}
