// Command nonht-gen synthesizes legacy OFDM packet waveforms and
// writes them as baseband sample files. Payloads are either random
// octets or a management beacon MPDU with a valid frame check
// sequence.
package main

import (
	"io"
	"log"
	"math/rand/v2"
	"os"

	"github.com/spf13/pflag"

	"github.com/softradio/nonht/internal/iq"
	"github.com/softradio/nonht/internal/mac"
	"github.com/softradio/nonht/internal/phy"
	"github.com/softradio/nonht/internal/phy/wavegen"
	"github.com/softradio/nonht/internal/version"
)

func main() {
	var (
		outPath   = pflag.StringP("out", "o", "-", "output sample file (- for stdout)")
		format    = pflag.StringP("format", "f", "cf32", "sample format: cf32 or cs16")
		bandwidth = pflag.StringP("bandwidth", "b", "CBW20", "bandwidth class")
		mcsIndex  = pflag.Int("mcs", 0, "modulation and coding index (0-7)")
		length    = pflag.IntP("length", "l", 100, "random payload length in octets")
		ssid      = pflag.String("ssid", "", "generate a beacon MPDU with this SSID instead of random octets")
		count     = pflag.IntP("count", "n", 1, "number of packets")
		gap       = pflag.Int("gap", 400, "idle samples between packets")
		cfo       = pflag.Float64("cfo", 0, "carrier frequency offset in Hz")
		noise     = pflag.Float64("noise", 0, "additive noise standard deviation")
		gain      = pflag.Float64("gain", 1, "amplitude gain")
		seed      = pflag.Uint64("seed", 1, "random seed for payloads and noise")
	)
	pflag.Parse()

	log.Printf("nonht-gen %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	bw, err := phy.ParseBandwidth(*bandwidth)
	if err != nil {
		log.Fatal(err)
	}
	sampleFormat, err := iq.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed+1))
	var out []complex128
	for i := 0; i < *count; i++ {
		psdu, err := buildPayload(*ssid, *length, uint16(i), rng)
		if err != nil {
			log.Fatal(err)
		}
		samples, err := wavegen.Generate(wavegen.Params{
			Bandwidth:   bw,
			MCSIndex:    *mcsIndex,
			PSDU:        psdu,
			CFOHz:       *cfo,
			Gain:        *gain,
			NoiseStdDev: *noise,
			Seed:        *seed + uint64(i),
			PadFront:    *gap,
		})
		if err != nil {
			log.Fatal(err)
		}
		out = append(out, samples...)
	}
	out = append(out, make([]complex128, *gap)...)

	var w io.Writer = os.Stdout
	if *outPath != "-" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	if err := iq.Write(w, sampleFormat, out); err != nil {
		log.Fatal(err)
	}
	log.Printf("%d packets, %d samples, %s", *count, len(out), sampleFormat)
}

func buildPayload(ssid string, length int, seq uint16, rng *rand.Rand) ([]byte, error) {
	if ssid != "" {
		return mac.Beacon("02:00:00:00:00:01", "02:00:00:00:00:01", ssid, seq)
	}
	psdu := make([]byte, length)
	for i := range psdu {
		psdu[i] = byte(rng.UintN(256))
	}
	return psdu, nil
}
