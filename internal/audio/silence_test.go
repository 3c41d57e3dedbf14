package audio

import "testing"

func TestSilenceSizing(t *testing.T) {
	format := Format{SampleRate: 44100, Channels: 1, BitDepth: 16}

	cases := []struct {
		durationMS int
		wantFrames int
	}{
		{0, 0},
		{1, 44},   // round(44.1)
		{999, 44056}, // round(44055.9)
		{2000, 88200},
	}

	for _, tc := range cases {
		got := Silence(format, tc.durationMS)
		want := tc.wantFrames * format.FrameSize()
		if len(got) != want {
			t.Fatalf("silence(%dms): expected %d bytes, got %d", tc.durationMS, want, len(got))
		}
	}
}

func TestSilenceIsZeroed(t *testing.T) {
	format := Format{SampleRate: 22050, Channels: 2, BitDepth: 16}
	buf := Silence(format, 500)
	if len(buf) != 22050/2*4 {
		t.Fatalf("unexpected length %d", len(buf))
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("non-zero byte %#x at offset %d", b, i)
		}
	}
}

func TestSilenceNegativeDuration(t *testing.T) {
	if got := Silence(Format{SampleRate: 44100, Channels: 1, BitDepth: 16}, -10); len(got) != 0 {
		t.Fatalf("expected empty buffer, got %d bytes", len(got))
	}
}
