package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shaiso/stemd/internal/blob"
	"github.com/shaiso/stemd/internal/domain"
	"github.com/shaiso/stemd/internal/proc"
	"github.com/shaiso/stemd/internal/state"
	"github.com/shaiso/stemd/internal/telemetry"
)

// Параметры обработки по умолчанию.
const (
	defaultFFmpeg    = "ffmpeg"
	defaultSeparator = "demucs"

	// referenceRate — каноническая частота эталонной волны.
	referenceRate = 44100

	// targetFormat — целевой lossless-формат stems.
	targetFormat = "flac"

	// flacCompression — максимальный уровень сжатия FLAC.
	flacCompression = "12"

	alignmentMethod = "pad_or_truncate"
)

// Executor выполняет стадии обработки одной задачи:
// download → decode → separate → align+encode → metadata → upload.
//
// Стадии идут строго последовательно, первая ошибка прерывает
// оставшиеся (fail-fast). Каждая задача владеет собственным
// scratch-каталогом; он удаляется безусловно по завершении,
// наружу уходит только то, что явно загружено в blob store.
type Executor struct {
	store   blob.Store
	runner  proc.Runner
	tracker *state.Tracker
	logger  *slog.Logger

	ffmpegPath    string
	separatorPath string
}

// Config — конфигурация Executor.
type Config struct {
	// Store — шлюз object storage.
	Store blob.Store

	// Runner — шлюз запуска внешних программ.
	Runner proc.Runner

	// Tracker — учёт состояния задач.
	Tracker *state.Tracker

	// FFmpegPath — путь к ffmpeg (default: "ffmpeg").
	FFmpegPath string

	// SeparatorPath — путь к инструменту разделения (default: "demucs").
	SeparatorPath string

	// Logger
	Logger *slog.Logger
}

// New создаёт Executor.
func New(cfg Config) *Executor {
	ffmpegPath := cfg.FFmpegPath
	if ffmpegPath == "" {
		ffmpegPath = defaultFFmpeg
	}

	separatorPath := cfg.SeparatorPath
	if separatorPath == "" {
		separatorPath = defaultSeparator
	}

	runner := cfg.Runner
	if runner == nil {
		runner = proc.ExecRunner{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		store:         cfg.Store,
		runner:        runner,
		tracker:       cfg.Tracker,
		logger:        logger,
		ffmpegPath:    ffmpegPath,
		separatorPath: separatorPath,
	}
}

// Execute обрабатывает одну задачу от начала до конца.
//
// Scratch-каталог удаляется в любом исходе. Ошибка возвращается
// вызывающему (internal/jobs) для терминального обновления состояния —
// до автора запроса она не доходит, тот уже получил Ack.
func (e *Executor) Execute(ctx context.Context, jobID string, req domain.Request) error {
	start := time.Now()

	scratch, err := os.MkdirTemp("", "stemd-job-*")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	telemetry.WithJobID(e.logger, jobID).Debug("created scratch dir", "dir", scratch)

	inputPath := filepath.Join(scratch, "input")
	refPath := filepath.Join(scratch, "ref.wav")
	stemsDir := filepath.Join(scratch, "stems")
	outDir := filepath.Join(scratch, "out")

	if err := e.download(ctx, jobID, req.SourceAddress, inputPath); err != nil {
		return err
	}

	ref, err := e.decode(ctx, jobID, inputPath, refPath)
	if err != nil {
		return err
	}

	if err := e.separate(ctx, jobID, refPath, stemsDir); err != nil {
		return err
	}

	if err := e.alignEncode(ctx, jobID, stemsDir, outDir, ref); err != nil {
		return err
	}

	if err := e.writeMetadata(jobID, outDir, ref, time.Since(start)); err != nil {
		return err
	}

	if err := e.upload(ctx, jobID, outDir, req.DestinationAddress); err != nil {
		return err
	}

	e.tracker.Log("pipeline.done", "job_id", jobID, "duration", time.Since(start))
	return nil
}

// download получает исходный файл из blob store.
// Адрес валидируется здесь, лениво — до этого момента сетевых
// вызовов не было.
func (e *Executor) download(ctx context.Context, jobID, source, localPath string) error {
	e.tracker.Log("pipeline.download", "job_id", jobID, "source", source)

	addr, err := blob.ParseAddress(source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	if err := e.store.Download(ctx, addr, localPath); err != nil {
		return fmt.Errorf("%w: %w", ErrDownload, err)
	}

	e.stageLogger(jobID, "download").Debug("source fetched", "address", addr.String())
	return nil
}

// decode транскодирует вход в эталонную волну (stereo, 44100 Hz,
// pcm_s16le) и снимает её характеристики. Частота и число frames
// эталона — канон для выравнивания всех stems задачи.
func (e *Executor) decode(ctx context.Context, jobID, inputPath, refPath string) (refInfo, error) {
	e.tracker.Log("pipeline.decode", "job_id", jobID)

	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "2",
		"-ar", fmt.Sprint(referenceRate),
		"-c:a", "pcm_s16le",
		refPath,
	}
	if err := e.runTool(ctx, ErrDecode, e.ffmpegPath, args...); err != nil {
		return refInfo{}, err
	}

	ref, err := probeWAV(refPath)
	if err != nil {
		return refInfo{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	e.tracker.Log("pipeline.reference",
		"job_id", jobID,
		"samples", ref.Frames,
		"sample_rate", ref.Rate,
	)

	return ref, nil
}

// separate запускает инструмент разделения и выравнивает его выход
// в плоский каталог: инструмент раскладывает stems по своим
// подкаталогам, глубина вложенности нам не принадлежит.
func (e *Executor) separate(ctx context.Context, jobID, refPath, stemsDir string) error {
	e.tracker.Log("pipeline.separate", "job_id", jobID)

	if err := os.MkdirAll(stemsDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrSeparation, err)
	}

	if err := e.runTool(ctx, ErrSeparation, e.separatorPath, "-o", stemsDir, refPath); err != nil {
		return err
	}

	if err := flatten(stemsDir); err != nil {
		return fmt.Errorf("%w: %w", ErrSeparation, err)
	}

	return nil
}

// alignEncode обрабатывает каждый stem: длина приводится ровно к
// эталонному числу frames, затем stem перекодируется в FLAC с
// максимальным сжатием. Несжатые промежуточные файлы удаляются
// после каждого stem. Ошибка на любом stem прерывает задачу целиком —
// частичного набора stems в выгрузке не бывает.
func (e *Executor) alignEncode(ctx context.Context, jobID, stemsDir, outDir string, ref refInfo) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrAlign, err)
	}

	entries, err := os.ReadDir(stemsDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAlign, err)
	}

	var stems []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".wav") {
			continue
		}
		stems = append(stems, entry.Name())
	}
	sort.Strings(stems)

	if len(stems) == 0 {
		return fmt.Errorf("%w: separator produced no stems", ErrSeparation)
	}

	for _, name := range stems {
		stemPath := filepath.Join(stemsDir, name)
		base := strings.TrimSuffix(name, filepath.Ext(name))
		alignedPath := filepath.Join(stemsDir, base+".aligned.wav")
		outPath := filepath.Join(outDir, base+"."+targetFormat)

		e.tracker.Log("pipeline.align", "job_id", jobID, "stem", base)

		if err := alignWAV(stemPath, alignedPath, ref.Frames); err != nil {
			return fmt.Errorf("%w: stem %s: %w", ErrAlign, base, err)
		}

		args := []string{
			"-hide_banner",
			"-nostdin",
			"-y",
			"-i", alignedPath,
			"-c:a", targetFormat,
			"-compression_level", flacCompression,
			outPath,
		}
		if err := e.runTool(ctx, ErrEncode, e.ffmpegPath, args...); err != nil {
			return fmt.Errorf("stem %s: %w", base, err)
		}

		e.stageLogger(jobID, "encode").Debug("stem encoded", "stem", base)

		// Несжатые артефакты больше не нужны.
		os.Remove(alignedPath)
		os.Remove(stemPath)
	}

	return nil
}

// writeMetadata пишет документ метаданных в выходной каталог.
// Только на успешном пути, до загрузки.
func (e *Executor) writeMetadata(jobID, outDir string, ref refInfo, elapsed time.Duration) error {
	e.tracker.Log("pipeline.metadata", "job_id", jobID)

	meta := domain.Metadata{
		DurationS:       elapsed.Seconds(),
		RefSamples:      ref.Frames,
		RefSampleRate:   ref.Rate,
		RefDurationS:    ref.DurationS(),
		AlignedFormat:   targetFormat,
		AlignmentMethod: alignmentMethod,
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	path := filepath.Join(outDir, domain.MetadataFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}

// upload рекурсивно загружает выходной каталог по destination-префиксу.
func (e *Executor) upload(ctx context.Context, jobID, outDir, destination string) error {
	e.tracker.Log("pipeline.upload", "job_id", jobID, "destination", destination)

	addr, err := blob.ParseAddress(destination)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	if err := blob.UploadTree(ctx, e.store, outDir, addr); err != nil {
		return fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return nil
}

// stageLogger возвращает логгер с атрибутами задачи и стадии.
func (e *Executor) stageLogger(jobID, stage string) *slog.Logger {
	return telemetry.WithStage(telemetry.WithJobID(e.logger, jobID), stage)
}

// runTool — общий хелпер "запустить, захватить, классифицировать":
// выполняет программу через Runner и мапит ненулевой exit code
// в ошибку конкретной стадии.
func (e *Executor) runTool(ctx context.Context, kind error, program string, args ...string) error {
	res, err := e.runner.Run(ctx, program, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kind, program, err)
	}

	if res.ExitCode != 0 {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		return fmt.Errorf("%w: %s exited with code %d: %s", kind, program, res.ExitCode, detail)
	}

	return nil
}
