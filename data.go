package lazyjumper

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"
	"strconv"
	"strings"
)

// Tile data encodings
// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#data
const (
	EncodingCSV    = "csv"
	EncodingBase64 = "base64"

	CompressionZlib = "zlib"
	CompressionGzip = "gzip"
)

// decodeCSV reads csv encoded tile data
func decodeCSV(raw []byte) ([]uint32, error) {
	cleaner := func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' {
			return r
		}
		return -1
	}

	rawDataClean := strings.Map(cleaner, string(raw))
	if rawDataClean == "" {
		return []uint32{}, nil
	}

	str := strings.Split(strings.TrimSuffix(rawDataClean, ","), ",")

	gids := make([]uint32, len(str))
	for i, s := range str {
		d, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return nil, err
		}
		gids[i] = uint32(d)
	}
	return gids, nil
}

// decodeBase64 reads base64 tile data, optionally compressed, holding
// little-endian uint32 gids.
func decodeBase64(raw []byte, compression string) ([]uint32, error) {
	clean := bytes.TrimSpace(raw)
	decoded := make([]byte, base64.StdEncoding.DecodedLen(len(clean)))
	n, err := base64.StdEncoding.Decode(decoded, clean)
	if err != nil {
		return nil, err
	}
	decoded = decoded[:n]

	var rd io.Reader
	switch compression {
	case "":
		rd = bytes.NewReader(decoded)
	case CompressionZlib:
		rd, err = zlib.NewReader(bytes.NewReader(decoded))
	case CompressionGzip:
		rd, err = gzip.NewReader(bytes.NewReader(decoded))
	default:
		return nil, fmt.Errorf("%w: compression %q", ErrUnsupported, compression)
	}
	if err != nil {
		return nil, err
	}

	bin, err := ioutil.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	if len(bin)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes of base64 tile data", ErrDataLength, len(bin))
	}

	gids := make([]uint32, len(bin)/4)
	for i := range gids {
		gids[i] = binary.LittleEndian.Uint32(bin[i*4:])
	}
	return gids, nil
}

// decodeData decodes tile data in any supported encoding
func decodeData(encoding, compression string, raw []byte) ([]uint32, error) {
	switch encoding {
	case EncodingCSV:
		return decodeCSV(raw)
	case EncodingBase64:
		return decodeBase64(raw, compression)
	}
	return nil, fmt.Errorf("%w: encoding %q", ErrUnsupported, encoding)
}
