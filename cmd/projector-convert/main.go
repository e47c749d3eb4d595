// ABOUTME: Host-side converter producing projector audio resources
// ABOUTME: Decodes common formats to headerless unsigned 8-bit mono PCM at the carrier rate
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Bwooce/soundprojector/internal/convert"
	"github.com/Bwooce/soundprojector/internal/monitor"
)

var (
	inPath   = flag.String("in", "", "Input audio file (.mp3, .flac, .opus, .wav, .raw)")
	outPath  = flag.String("out", "", "Output resource path (default: input name + .raw)")
	rate     = flag.Int("rate", convert.DefaultTargetRate, "Output sample rate in Hz (the carrier rate)")
	gain     = flag.Float64("gain", 1.0, "Gain applied before quantization")
	rawRate  = flag.Int("raw-rate", 0, "Input rate for headerless .raw/.pcm input (s16le mono)")
	opusMono = flag.Bool("opus-mono", false, "Treat Ogg/Opus input as mono")
	preview  = flag.Bool("preview", false, "Play the result on the host soundcard before writing")
)

func main() {
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: projector-convert -in <file> [-out <file>] [-rate 40000]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	out := *outPath
	if out == "" {
		out = *inPath + ".raw"
	}

	samples, err := convert.File(*inPath, convert.Options{
		TargetRate: *rate,
		Gain:       *gain,
		RawRate:    *rawRate,
		OpusMono:   *opusMono,
	})
	if err != nil {
		log.Fatalf("Conversion failed: %v", err)
	}

	log.Printf("Converted %s: %d samples (%.2fs at %d Hz)",
		*inPath, len(samples), float64(len(samples))/float64(*rate), *rate)

	if *preview {
		log.Printf("Previewing...")
		if err := monitor.Play(samples, *rate); err != nil {
			log.Printf("Preview failed: %v", err)
		}
	}

	if err := os.WriteFile(out, samples, 0644); err != nil {
		log.Fatalf("Failed to write %s: %v", out, err)
	}

	log.Printf("Wrote %s", out)
}
