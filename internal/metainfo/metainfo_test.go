package metainfo

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"strings"
	"testing"

	"github.com/zeebo/bencode"

	bdec "github.com/codecrafters-io/bencode-decoder-go/internal/bencode"
)

type testFile struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

type singleInfo struct {
	Length      int64  `bencode:"length"`
	Name        string `bencode:"name"`
	PieceLength int64  `bencode:"piece length"`
	Pieces      string `bencode:"pieces"`
}

type multiInfo struct {
	Files       []testFile `bencode:"files"`
	Name        string     `bencode:"name"`
	PieceLength int64      `bencode:"piece length"`
	Pieces      string     `bencode:"pieces"`
}

type torrent[T any] struct {
	Announce string `bencode:"announce"`
	Info     T      `bencode:"info"`
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := bencode.EncodeBytes(v)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	return b
}

func pieces(n int) string {
	var b bytes.Buffer
	for i := 0; i < n; i++ {
		b.Write(bytes.Repeat([]byte{byte(i + 1)}, sha1.Size))
	}
	return b.String()
}

func TestParseSingleFile(t *testing.T) {
	info := singleInfo{Length: 92063, Name: "sample.txt", PieceLength: 32768, Pieces: pieces(3)}
	data := encode(t, torrent[singleInfo]{Announce: "http://tracker.example/announce", Info: info})

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Announce != "http://tracker.example/announce" || m.Name != "sample.txt" {
		t.Fatalf("unexpected announce/name %q/%q", m.Announce, m.Name)
	}
	if m.Length != 92063 || m.PieceLength != 32768 {
		t.Fatalf("length = %d, piece length = %d", m.Length, m.PieceLength)
	}
	if m.Files != nil {
		t.Fatalf("single-file torrent has files %v", m.Files)
	}

	if want := sha1.Sum(encode(t, info)); m.InfoHash != want {
		t.Fatalf("info hash = %x, want %x", m.InfoHash, want)
	}
	hashes := m.PieceHashes()
	if len(hashes) != 3 || hashes[0] != strings.Repeat("01", sha1.Size) || hashes[2] != strings.Repeat("03", sha1.Size) {
		t.Fatalf("piece hashes = %v", hashes)
	}
	if len(m.InfoHashHex()) != 2*sha1.Size {
		t.Fatalf("info hash hex = %q", m.InfoHashHex())
	}
}

func TestParseMultiFile(t *testing.T) {
	info := multiInfo{
		Files: []testFile{
			{Length: 10, Path: []string{"a", "one.bin"}},
			{Length: 32, Path: []string{"two.bin"}},
		},
		Name:        "dir",
		PieceLength: 16,
		Pieces:      pieces(3),
	}
	data := encode(t, torrent[multiInfo]{Announce: "udp://tracker.example:80", Info: info})

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Length != 42 || len(m.Files) != 2 {
		t.Fatalf("length = %d, files = %v", m.Length, m.Files)
	}
	if got := strings.Join(m.Files[0].Path, "/"); got != "a/one.bin" {
		t.Fatalf("files[0] path = %q", got)
	}
	if want := sha1.Sum(encode(t, info)); m.InfoHash != want {
		t.Fatalf("info hash = %x, want %x", m.InfoHash, want)
	}
}

func TestInfoHashUsesRawBytes(t *testing.T) {
	// Unsorted keys inside info: a re-encoding would reorder them.
	rawInfo := "d4:name1:x6:lengthi1e12:piece lengthi1e6:pieces0:e"
	data := []byte("d8:announce3:url4:info" + rawInfo + "e")

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := sha1.Sum([]byte(rawInfo)); m.InfoHash != want {
		t.Fatalf("info hash = %x, want %x", m.InfoHash, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"not a dict", "li1ee", "top level"},
		{"no info", "d8:announce3:urle", `"info"`},
		{"announce not string", "d8:announcei1e4:infodee", `"announce"`},
		{"missing name", "d4:infod12:piece lengthi1e6:pieces0:ee", `"name"`},
		{"bad pieces", "d4:infod6:lengthi1e4:name1:x12:piece lengthi1e6:pieces3:abcee", "multiple of 20"},
		{"zero piece length", "d4:infod6:lengthi1e4:name1:x12:piece lengthi0e6:pieces0:ee", "not positive"},
		{"no length or files", "d4:infod4:name1:x12:piece lengthi1e6:pieces0:ee", `"files"`},
		{"bad file path", "d4:infod5:filesld6:lengthi1e4:pathli1eeee4:name1:x12:piece lengthi1e6:pieces0:ee", "files[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Parse error = %v, want it to mention %s", err, tt.want)
			}
		})
	}
}

func TestParseDecodeError(t *testing.T) {
	_, err := Parse([]byte("d8:announce3:url4:infod4:name5:xe"))
	if !errors.Is(err, bdec.ErrTruncated) {
		t.Fatalf("Parse error = %v, want truncated input", err)
	}

	_, err = ParseWith(bdec.NewDecoder(bdec.WithStrict(true)), []byte("d4:infode8:announce3:urle"))
	if kind, ok := bdec.KindOf(err); !ok || kind != bdec.ErrUnsortedKeys {
		t.Fatalf("strict Parse error = %v, want unsorted keys", err)
	}
}
