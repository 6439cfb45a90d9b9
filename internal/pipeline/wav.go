package pipeline

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// refInfo — характеристики эталонной волны, под которую выравниваются
// все stems задачи.
type refInfo struct {
	// Frames — число сэмплов на канал.
	Frames int

	// Rate — частота дискретизации, Hz.
	Rate int
}

// DurationS возвращает длительность эталона в секундах.
func (r refInfo) DurationS() float64 {
	if r.Rate == 0 {
		return 0
	}
	return float64(r.Frames) / float64(r.Rate)
}

// probeWAV читает WAV-файл и возвращает число frames и частоту.
func probeWAV(path string) (refInfo, error) {
	buf, _, err := readWAV(path)
	if err != nil {
		return refInfo{}, err
	}

	return refInfo{
		Frames: buf.NumFrames(),
		Rate:   buf.Format.SampleRate,
	}, nil
}

// alignWAV переписывает WAV из src в dst ровно с frames сэмплами
// на канал: короткий дополняется нулями, длинный усекается.
// Формат (каналы, частота, разрядность) сохраняется.
func alignWAV(src, dst string, frames int) error {
	buf, bitDepth, err := readWAV(src)
	if err != nil {
		return err
	}

	ch := buf.Format.NumChannels
	want := frames * ch

	switch {
	case len(buf.Data) > want:
		buf.Data = buf.Data[:want]
	case len(buf.Data) < want:
		buf.Data = append(buf.Data, make([]int, want-len(buf.Data))...)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	enc := wav.NewEncoder(out, buf.Format.SampleRate, bitDepth, ch, 1)
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("write %s: %w", dst, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", dst, err)
	}

	return nil
}

// readWAV декодирует WAV-файл целиком в PCM-буфер.
func readWAV(path string) (*audio.IntBuffer, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file: %s", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", path, err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	return buf, bitDepth, nil
}
