package audio

import "testing"

func TestLooksLikeMP3(t *testing.T) {
	cases := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"id3 tag", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), true},
		{"frame sync fb", []byte{0xFF, 0xFB, 0x90, 0x00}, true},
		{"frame sync f3", []byte{0xFF, 0xF3, 0x18, 0xC4}, true},
		{"frame sync f2", []byte{0xFF, 0xF2, 0x40, 0x00}, true},
		{"wav header", []byte("RIFF\x00\x00\x00\x00WAVE"), false},
		{"empty", nil, false},
		{"bare 0xff", []byte{0xFF}, false},
		{"wrong sync", []byte{0xFF, 0xE0, 0x00}, false},
	}

	for _, tc := range cases {
		if got := LooksLikeMP3(tc.buf); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}
