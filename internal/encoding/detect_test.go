package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/tradepack/internal/encoding"
)

func TestNewUTF8Reader(t *testing.T) {
	const want = "Item;Unit;Unit Price\nCâble 2.5mm²;m;3,20\n"

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(want))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset encoding.Charset
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte(want),
			want:        want,
			wantCharset: encoding.CharsetUTF8,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, want...),
			want:        want,
			wantCharset: encoding.CharsetUTF8BOM,
		},
		{
			name:        "UTF16LE",
			input:       utf16le,
			want:        want,
			wantCharset: encoding.CharsetUTF16LE,
		},
		{
			// Latin-1 "Café fit-out", where é = 0xE9. Decodes the same under every single-byte guess.
			name:  "Latin1",
			input: []byte("Item;Unit Price\nCaf\xe9 fit-out;1.200,00\n"),
			want:  "Item;Unit Price\nCafé fit-out;1.200,00\n",
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.CharsetUTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, cs, err := encoding.NewUTF8Reader(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, cs)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_LongInput(t *testing.T) {
	input := bytes.Repeat([]byte("Hourly rate;95,00\n"), 1000)

	r, _, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}
