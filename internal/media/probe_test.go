package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFFProbeDuration(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)

	var gotArgs []string
	probe.Run = func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(`{"format":{"duration":"42.500000"}}`), nil
	}

	duration, err := probe.Duration(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("probe duration: %v", err)
	}
	if duration != 42.5 {
		t.Fatalf("expected 42.5 seconds, got %v", duration)
	}
	if len(gotArgs) == 0 || gotArgs[len(gotArgs)-1] != "/tmp/clip.mp4" {
		t.Fatalf("expected path as final argument, got %v", gotArgs)
	}
}

func TestFFProbeDurationMissing(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(context.Context, string, ...string) ([]byte, error) {
		return []byte(`{"format":{}}`), nil
	}

	_, err := probe.Duration(context.Background(), "/tmp/clip.mp4")
	if !errors.Is(err, ErrNoDuration) {
		t.Fatalf("expected ErrNoDuration, got %v", err)
	}
}

func TestFFProbeDurationInvalid(t *testing.T) {
	cases := []struct {
		name   string
		output string
	}{
		{name: "non-numeric", output: `{"format":{"duration":"N/A"}}`},
		{name: "zero", output: `{"format":{"duration":"0"}}`},
		{name: "negative", output: `{"format":{"duration":"-3"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probe := NewFFProbe("ffprobe", time.Second)
			probe.Run = func(context.Context, string, ...string) ([]byte, error) {
				return []byte(tc.output), nil
			}

			_, err := probe.Duration(context.Background(), "/tmp/clip.mp4")
			if !errors.Is(err, ErrNoDuration) {
				t.Fatalf("expected ErrNoDuration, got %v", err)
			}
		})
	}
}

func TestFFProbeDurationCommandFailure(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	if _, err := probe.Duration(context.Background(), "/tmp/clip.mp4"); err == nil {
		t.Fatal("expected command failure to propagate")
	}
}
