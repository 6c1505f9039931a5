package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"

	"github.com/qrfec/raptorq"
)

const (
	otiFileName = "oti.bin"
	framePrefix = "frame-"
)

// fileConfig holds defaults that can be provided via --config instead of
// flags. Flag values take precedence over config file values.
type fileConfig struct {
	Payload uint    `yaml:"payload"`
	Repair  int     `yaml:"repair"`
	Drop    float64 `yaml:"drop"`
}

func loadConfig(path string) error {
	if path == "" {
		return nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return xerrors.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(buf, &fc); err != nil {
		return xerrors.Errorf("parse config %s: %w", path, err)
	}
	if fc.Payload != 0 {
		viper.SetDefault("payload", fc.Payload)
	}
	if fc.Repair != 0 {
		viper.SetDefault("repair", fc.Repair)
	}
	if fc.Drop != 0 {
		viper.SetDefault("drop", fc.Drop)
	}
	return nil
}

func runEncode(input, output string, payload uint16, repair int) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return xerrors.Errorf("read input: %w", err)
	}
	enc, err := raptorq.NewEncoder(data, payload)
	if err != nil {
		return err
	}
	frames, err := enc.Frames(repair)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(output, 0o755); err != nil {
		return xerrors.Errorf("create output dir: %w", err)
	}
	oti, err := enc.OTI().MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(output, otiFileName), oti, 0o644); err != nil {
		return xerrors.Errorf("write oti: %w", err)
	}
	for _, frame := range frames {
		id, err := raptorq.ParsePayloadID(frame)
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s%d-%d.bin", framePrefix, id.SBN, id.ESI)
		if err := os.WriteFile(filepath.Join(output, name), frame, 0o644); err != nil {
			return xerrors.Errorf("write frame: %w", err)
		}
	}
	log.Infow("encoded",
		"input", input,
		"bytes", len(data),
		"frames", len(frames),
		"payload", payload,
		"repair", repair,
	)
	return nil
}

func runDecode(input, output string, drop float64) error {
	oti, err := os.ReadFile(filepath.Join(input, otiFileName))
	if err != nil {
		return xerrors.Errorf("read oti: %w", err)
	}
	dec, err := raptorq.NewDecoderFromOTI(oti)
	if err != nil {
		return err
	}
	frames, err := readFrames(input)
	if err != nil {
		return err
	}
	rand.Shuffle(len(frames), func(i, j int) {
		frames[i], frames[j] = frames[j], frames[i]
	})

	var pushed, dropped int
	complete := false
	for _, frame := range frames {
		if drop > 0 && rand.Float64() < drop {
			dropped++
			continue
		}
		c, err := dec.PushFrame(frame)
		if err != nil {
			log.Warnw("frame rejected", "error", err)
			continue
		}
		pushed++
		if c {
			complete = true
			break
		}
	}
	if !complete {
		return xerrors.Errorf("decode %s: not enough frames "+
			"(%d pushed, %d dropped)", input, pushed, dropped)
	}
	data, err := dec.TakeResult()
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return xerrors.Errorf("write output: %w", err)
	}
	log.Infow("decoded",
		"output", output,
		"bytes", len(data),
		"pushed", pushed,
		"dropped", dropped,
	)
	return nil
}

func runRoundtrip(input string, payload uint16, drop float64) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return xerrors.Errorf("read input: %w", err)
	}
	enc, err := raptorq.NewEncoder(data, payload)
	if err != nil {
		return err
	}
	dec, err := raptorq.NewDecoder(enc.OTI())
	if err != nil {
		return err
	}

	frames, err := enc.Frames(0)
	if err != nil {
		return err
	}
	rand.Shuffle(len(frames), func(i, j int) {
		frames[i], frames[j] = frames[j], frames[i]
	})
	complete := false
	dropped := 0
	for _, frame := range frames {
		if rand.Float64() < drop {
			dropped++
			continue
		}
		c, err := dec.PushFrame(frame)
		if err != nil {
			return err
		}
		complete = complete || c
	}

	// Replace lost source symbols with repair symbols, one per block per
	// round, until the object decodes.
	counts := enc.OTI().BlockSymbolCounts()
	repair := 0
	for round := uint32(0); !complete; round++ {
		for sbn := 0; !complete && sbn < len(counts); sbn++ {
			frame, err := enc.Frame(uint8(sbn), uint32(counts[sbn])+round)
			if err != nil {
				return err
			}
			c, err := dec.PushFrame(frame)
			if err != nil {
				return err
			}
			repair++
			complete = complete || c
		}
	}

	decoded, err := dec.TakeResult()
	if err != nil {
		return err
	}
	if string(decoded) != string(data) {
		return xerrors.New("roundtrip: decoded data differs from input")
	}
	log.Infow("roundtrip ok",
		"bytes", len(data),
		"dropped", dropped,
		"repair", repair,
	)
	return nil
}

// readFrames loads every frame-*.bin file in dir, in directory order.
func readFrames(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, xerrors.Errorf("read frame dir: %w", err)
	}
	var frames [][]byte
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), framePrefix) {
			continue
		}
		buf, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, xerrors.Errorf("read frame %s: %w", e.Name(), err)
		}
		frames = append(frames, buf)
	}
	if len(frames) == 0 {
		return nil, xerrors.Errorf("no %s*.bin files in %s", framePrefix, dir)
	}
	return frames, nil
}
