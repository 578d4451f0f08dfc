// Command spectrum plots the averaged power spectrum of a baseband
// sample file. Handy for eyeballing captures before feeding them to
// the receiver.
package main

import (
	"log"
	"math"
	"os"

	"github.com/spf13/pflag"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/softradio/nonht/internal/iq"
)

func main() {
	var (
		inPath  = pflag.StringP("in", "i", "", "input sample file")
		outPath = pflag.StringP("out", "o", "spectrum.png", "output image")
		format  = pflag.StringP("format", "f", "cf32", "sample format: cf32 or cs16")
		fftLen  = pflag.Int("fft", 256, "FFT length")
		rate    = pflag.Float64("rate", 20e6, "sample rate in Hz")
	)
	pflag.Parse()

	sampleFormat, err := iq.ParseFormat(*format)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	samples, err := iq.Read(f, sampleFormat)
	if err != nil {
		log.Fatal(err)
	}
	if len(samples) < *fftLen {
		log.Fatalf("%d samples is fewer than one %d-point segment", len(samples), *fftLen)
	}

	psd := averagedSpectrum(samples, *fftLen)

	// Shift so DC sits at the center of the plot.
	pts := make(plotter.XYs, len(psd))
	for i := range psd {
		bin := (i + len(psd)/2) % len(psd)
		freq := (float64(i) - float64(len(psd))/2) * *rate / float64(len(psd))
		pts[i] = plotter.XY{X: freq / 1e6, Y: 10 * math.Log10(psd[bin]+1e-20)}
	}

	plt := plot.New()
	plt.Title.Text = "Power spectrum"
	plt.X.Label.Text = "Frequency (MHz)"
	plt.Y.Label.Text = "Power (dB)"
	line, err := plotter.NewLine(pts)
	if err != nil {
		log.Fatal(err)
	}
	plt.Add(line)
	plt.Add(plotter.NewGrid())

	if err := plt.Save(8*vg.Inch, 4*vg.Inch, *outPath); err != nil {
		log.Fatal(err)
	}
	log.Printf("%d segments averaged into %s", len(samples)/(*fftLen), *outPath)
}

// averagedSpectrum averages the periodogram over consecutive segments.
func averagedSpectrum(samples []complex128, n int) []float64 {
	fft := fourier.NewCmplxFFT(n)
	coef := make([]complex128, n)
	psd := make([]float64, n)
	segments := 0
	for off := 0; off+n <= len(samples); off += n {
		fft.Coefficients(coef, samples[off:off+n])
		for i, c := range coef {
			psd[i] += real(c)*real(c) + imag(c)*imag(c)
		}
		segments++
	}
	for i := range psd {
		psd[i] /= float64(segments) * float64(n)
	}
	return psd
}
