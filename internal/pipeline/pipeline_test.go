package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/shaiso/stemd/internal/blob"
	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/proc"
	"github.com/shaiso/stemd/internal/state"
)

// writeWAVFile пишет WAV-фикстуру с заданным числом frames.
func writeWAVFile(t *testing.T, path string, frames, rate, channels int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	data := make([]int, frames*channels)
	for i := range data {
		data[i] = i%64 + 1
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

// readWAVFrames возвращает число frames в WAV-файле.
func readWAVFrames(t *testing.T, path string) int {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.NumFrames()
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// fakeRunner имитирует ffmpeg и инструмент разделения, записывая
// настоящие WAV-файлы туда, куда их записали бы внешние программы.
type fakeRunner struct {
	t *testing.T

	refFrames int
	stems     map[string]int // имя stem → frames

	separatorExit int

	// encodedFrames фиксирует длину каждого stem на входе encode-стадии.
	encodedFrames map[string]int
}

func (f *fakeRunner) Run(_ context.Context, program string, args ...string) (proc.Result, error) {
	switch program {
	case "ffmpeg":
		if argAfter(args, "-c:a") == "pcm_s16le" {
			// Decode: последний аргумент — путь эталонной волны.
			writeWAVFile(f.t, args[len(args)-1], f.refFrames, 44100, 2)
			return proc.Result{}, nil
		}

		// Encode: читаем выровненный вход, чтобы тест мог проверить длину.
		in := argAfter(args, "-i")
		base := strings.TrimSuffix(filepath.Base(in), ".aligned.wav")
		if f.encodedFrames == nil {
			f.encodedFrames = make(map[string]int)
		}
		f.encodedFrames[base] = readWAVFrames(f.t, in)

		out := args[len(args)-1]
		if err := os.WriteFile(out, []byte("fLaC"+base), 0o644); err != nil {
			f.t.Fatal(err)
		}
		return proc.Result{}, nil

	case "demucs":
		if f.separatorExit != 0 {
			return proc.Result{ExitCode: f.separatorExit, Stderr: "separation model crashed"}, nil
		}

		// Инструмент раскладывает stems по model/track-подкаталогам.
		nested := filepath.Join(argAfter(args, "-o"), "htdemucs", "ref")
		if err := os.MkdirAll(nested, 0o755); err != nil {
			f.t.Fatal(err)
		}
		for name, frames := range f.stems {
			writeWAVFile(f.t, filepath.Join(nested, name+".wav"), frames, 44100, 2)
		}
		return proc.Result{}, nil
	}

	return proc.Result{}, fmt.Errorf("unexpected program: %s", program)
}

func newTestExecutor(store blob.Store, runner proc.Runner) (*Executor, *state.Tracker) {
	tracker := state.NewTracker(slog.New(slog.DiscardHandler))
	e := New(Config{
		Store:   store,
		Runner:  runner,
		Tracker: tracker,
		Logger:  slog.New(slog.DiscardHandler),
	})
	return e, tracker
}

func TestExecutor_Success(t *testing.T) {
	// Scratch-каталоги — в изолированный TMPDIR, чтобы проверить уборку.
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	store := blob.NewMemStore()
	store.Put(blob.Address{Scheme: "gs", Bucket: "bucket", Key: "in.mp3"}, []byte("mp3"))

	runner := &fakeRunner{
		t:         t,
		refFrames: 44100,
		stems:     map[string]int{"vocals": 40000, "drums": 50000},
	}
	e, _ := newTestExecutor(store, runner)

	err := e.Execute(context.Background(), "job-1", domain.Request{
		SourceAddress:      "gs://bucket/in.mp3",
		DestinationAddress: "gs://bucket/out/",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Оба stem выровнены ровно под эталон: короткий дополнен, длинный усечён.
	for _, stem := range []string{"vocals", "drums"} {
		if got := runner.encodedFrames[stem]; got != 44100 {
			t.Errorf("stem %s: expected 44100 frames after alignment, got %d", stem, got)
		}
	}

	// Выгружены оба stem и метаданные.
	for _, key := range []string{"out/vocals.flac", "out/drums.flac", "out/_metadata.json"} {
		if _, ok := store.Get(blob.Address{Scheme: "gs", Bucket: "bucket", Key: key}); !ok {
			t.Errorf("missing uploaded object %s", key)
		}
	}

	data, _ := store.Get(blob.Address{Scheme: "gs", Bucket: "bucket", Key: "out/_metadata.json"})
	var meta domain.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("metadata is not valid json: %v", err)
	}
	if meta.RefSamples != 44100 || meta.RefSampleRate != 44100 {
		t.Errorf("unexpected reference metadata: %+v", meta)
	}
	if meta.RefDurationS != 1.0 {
		t.Errorf("expected ref_duration_s=1.0, got %v", meta.RefDurationS)
	}
	if meta.AlignedFormat != "flac" {
		t.Errorf("expected aligned_format=flac, got %q", meta.AlignedFormat)
	}

	assertNoScratchLeft(t, tmp)
}

func TestExecutor_SeparationFailure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	store := blob.NewMemStore()
	store.Put(blob.Address{Scheme: "gs", Bucket: "bucket", Key: "in.mp3"}, []byte("mp3"))

	runner := &fakeRunner{t: t, refFrames: 44100, separatorExit: 1}
	e, _ := newTestExecutor(store, runner)

	err := e.Execute(context.Background(), "job-1", domain.Request{
		SourceAddress:      "gs://bucket/in.mp3",
		DestinationAddress: "gs://bucket/out/",
	})
	if !errors.Is(err, ErrSeparation) {
		t.Fatalf("expected ErrSeparation, got %v", err)
	}

	// Fail-fast: ничего не выгружено, в store только исходник.
	if store.Len() != 1 {
		t.Errorf("expected no uploads after failure, store has %d objects", store.Len())
	}

	assertNoScratchLeft(t, tmp)
}

func TestExecutor_BadSourceAddress(t *testing.T) {
	store := blob.NewMemStore()
	e, _ := newTestExecutor(store, &fakeRunner{t: t})

	err := e.Execute(context.Background(), "job-1", domain.Request{
		SourceAddress:      "no-scheme-here",
		DestinationAddress: "gs://bucket/out/",
	})

	// Адрес отклонён до сети; ошибка классифицируется и как стадия,
	// и как адресная.
	if !errors.Is(err, ErrDownload) {
		t.Errorf("expected ErrDownload, got %v", err)
	}
	if !errors.Is(err, blob.ErrBadAddress) {
		t.Errorf("expected wrapped ErrBadAddress, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("no uploads expected, store has %d objects", store.Len())
	}
}

func TestExecutor_MissingSourceObject(t *testing.T) {
	store := blob.NewMemStore()
	e, _ := newTestExecutor(store, &fakeRunner{t: t})

	err := e.Execute(context.Background(), "job-1", domain.Request{
		SourceAddress:      "gs://bucket/absent.mp3",
		DestinationAddress: "gs://bucket/out/",
	})
	if !errors.Is(err, ErrDownload) {
		t.Errorf("expected ErrDownload, got %v", err)
	}
}

func TestExecutor_BadDestinationFailsBeforeUpload(t *testing.T) {
	store := blob.NewMemStore()
	store.Put(blob.Address{Scheme: "gs", Bucket: "bucket", Key: "in.mp3"}, []byte("mp3"))

	runner := &fakeRunner{t: t, refFrames: 100, stems: map[string]int{"vocals": 100}}
	e, _ := newTestExecutor(store, runner)

	err := e.Execute(context.Background(), "job-1", domain.Request{
		SourceAddress:      "gs://bucket/in.mp3",
		DestinationAddress: "gs://bucket",
	})
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}
	if !errors.Is(err, blob.ErrBadAddress) {
		t.Errorf("expected wrapped ErrBadAddress, got %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected no uploads, store has %d objects", store.Len())
	}
}

// assertNoScratchLeft проверяет, что scratch-каталоги задач не пережили
// выполнение.
func assertNoScratchLeft(t *testing.T, tmp string) {
	t.Helper()

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "stemd-job-") {
			t.Errorf("scratch dir outlived its job: %s", entry.Name())
		}
	}
}
