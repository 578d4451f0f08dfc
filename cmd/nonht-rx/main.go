// Command nonht-rx runs the legacy OFDM receiver over a baseband
// sample file and reports the packets it decodes.
//
// Samples are fed to the receiver in batches to mirror streaming
// capture. Decoded payloads can be inspected as 802.11 MPDUs and the
// results recorded to a sqlite frame store.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/softradio/nonht/internal/config"
	"github.com/softradio/nonht/internal/framestore"
	"github.com/softradio/nonht/internal/iq"
	"github.com/softradio/nonht/internal/mac"
	"github.com/softradio/nonht/internal/phy"
	"github.com/softradio/nonht/internal/phy/dsp"
	"github.com/softradio/nonht/internal/version"
)

func main() {
	var (
		configPath = pflag.StringP("config", "c", "", "YAML run configuration file")
		inPath     = pflag.StringP("in", "i", "-", "input sample file (- for stdin)")
		format     = pflag.StringP("format", "f", "", "sample format: cf32 or cs16")
		bandwidth  = pflag.StringP("bandwidth", "b", "", "bandwidth class: CBW5, CBW10 or CBW20")
		storePath  = pflag.String("store", "", "sqlite frame store path")
		decode     = pflag.Bool("decode", true, "decode payloads and inspect MPDUs")
		debug      = pflag.Bool("debug", false, "verbose receiver diagnostics")
	)
	pflag.Parse()

	cfg := config.EmptyRunConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *bandwidth != "" {
		cfg.Bandwidth = bandwidth
	}
	if *format != "" {
		cfg.InputFormat = format
	}
	if *storePath != "" {
		cfg.StorePath = storePath
	}
	if *debug || cfg.GetDebug() {
		phy.SetDebugLogger(os.Stderr)
	}
	log.Printf("nonht-rx %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	if err := run(cfg, *inPath, *decode); err != nil {
		log.Fatal(err)
	}
}

func run(cfg *config.RunConfig, inPath string, decode bool) error {
	phyCfg, err := cfg.PHYConfig()
	if err != nil {
		return err
	}
	eq, err := cfg.Equalization()
	if err != nil {
		return err
	}
	sampleFormat, err := iq.ParseFormat(cfg.GetInputFormat())
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	samples, err := iq.Read(in, sampleFormat)
	if err != nil {
		return err
	}

	var store *framestore.Store
	if path := cfg.GetStorePath(); path != "" {
		store, err = framestore.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	fe := dsp.New(phyCfg.Bandwidth)
	rx, err := phy.New(phyCfg, fe)
	if err != nil {
		return err
	}
	defer rx.Close()

	batch := cfg.GetBatchSymbols() * phyCfg.Bandwidth.SymbolLength()
	total := 0
	for off := 0; off < len(samples); off += batch {
		end := off + batch
		if end > len(samples) {
			end = len(samples)
		}
		for _, frame := range rx.Process(samples[off:end]) {
			total++
			report(fe, frame, phyCfg, eq, store, decode)
		}
	}

	log.Printf("%d samples processed, %d frames decoded", len(samples), total)
	return nil
}

func report(fe *dsp.FrontEnd, frame phy.Frame, cfg phy.Config, eq phy.Equalization, store *framestore.Store, decode bool) {
	log.Printf("frame %s: mcs %d, %d octets, %d symbols, cfo %.0f%+.0f Hz",
		frame.ID, frame.Params.MCSIndex, frame.Params.PSDULength,
		frame.Params.NumDataSymbols, frame.CoarseCFO, frame.FineCFO)

	fcsValid := false
	summary := ""
	if decode {
		psdu, err := fe.DecodePayload(frame, cfg.SymbolOffset, eq)
		if err != nil {
			log.Printf("frame %s: payload decode: %v", frame.ID, err)
		} else if s, err := mac.Summarize(psdu); err != nil {
			log.Printf("frame %s: mpdu: %v", frame.ID, err)
		} else {
			fcsValid = s.FCSValid
			summary = fmt.Sprintf("%s %s -> %s ssid=%q fcs=%v",
				s.Type, s.Addr2, s.Addr1, s.SSID, s.FCSValid)
			log.Printf("frame %s: %s", frame.ID, summary)
		}
	}
	if store != nil {
		if err := store.RecordFrame(frame, cfg.Bandwidth, fcsValid, summary); err != nil {
			log.Printf("frame %s: store: %v", frame.ID, err)
		}
	}
}
