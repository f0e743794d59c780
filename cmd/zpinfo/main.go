// Command zpinfo inspects and applies z-plane filter designs.
//
// Usage:
//
//	zpinfo [flags]
//
// A design is read either from a zero/pole CSV file (-zpk) or from
// transfer-function coefficients (-b and -a). zpinfo prints the zeros,
// poles, gain and coefficients of the design, optionally a sampled
// frequency response, and can run a WAV file through the filter.
//
// Examples:
//
//	zpinfo -zpk notch.csv
//	zpinfo -b "1,-1" -a "1,-1,0.5" -response 16
//	zpinfo -zpk lowpass.csv -in speech.wav -out filtered.wav
//	zpinfo -b "1,-1" -a "1,-0.9" -export design.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-zplane/dsp/filter/iir"
	"github.com/cwbudde/algo-zplane/dsp/filter/zpk"
	"github.com/cwbudde/algo-zplane/dsp/filter/zplane"
)

const defaultResponseRows = 0

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	zpkPath := flag.String("zpk", "", "zero/pole CSV file (Type,Real,Imaginary)")
	bFlag := flag.String("b", "", "numerator coefficients, comma separated")
	aFlag := flag.String("a", "1", "denominator coefficients, comma separated")
	gain := flag.Float64("gain", 1, "numerator gain applied to a -zpk design")
	rows := flag.Int("response", defaultResponseRows, "print N rows of the frequency response")
	fftSize := flag.Int("fft", zpk.DefaultFFTSize, "FFT size for the frequency response (power of two)")
	inPath := flag.String("in", "", "input WAV file to filter")
	outPath := flag.String("out", "", "output WAV file")
	exportPath := flag.String("export", "", "write the design as a zero/pole CSV file")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: zpinfo [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Prints zeros, poles and coefficients of a z-plane filter design.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  zpinfo -zpk notch.csv\n")
		fmt.Fprintf(os.Stderr, "  zpinfo -b \"1,-1\" -a \"1,-1,0.5\" -response 16\n")
		fmt.Fprintf(os.Stderr, "  zpinfo -zpk lowpass.csv -in speech.wav -out filtered.wav\n")
	}
	flag.Parse()

	if (*zpkPath == "") == (*bFlag == "") {
		flag.Usage()
		return fmt.Errorf("exactly one of -zpk or -b is required")
	}

	if (*inPath == "") != (*outPath == "") {
		return fmt.Errorf("-in and -out must be given together")
	}

	analyzer, err := zpk.NewAnalyzer(*fftSize)
	if err != nil {
		return err
	}

	filter := iir.New()
	ed := zplane.NewEditor(
		zplane.WithGain(*gain),
		zplane.WithConsumers(analyzer, filter),
	)

	if err := loadDesign(ed, *zpkPath, *bFlag, *aFlag, *verbose); err != nil {
		return err
	}

	if err := printDesign(ed); err != nil {
		return err
	}

	if *rows > 0 {
		if err := printResponse(analyzer.Response(), *rows); err != nil {
			return err
		}
	}

	if *exportPath != "" {
		if err := exportDesign(ed, *exportPath); err != nil {
			return err
		}
		if *verbose {
			log.Printf("Wrote design to %s", *exportPath)
		}
	}

	if *inPath != "" {
		stats, err := filterWAV(*inPath, *outPath, filter, *verbose)
		if err != nil {
			return err
		}

		fmt.Printf("Filtered %s -> %s (%d Hz, %d channels, %d-bit, %d frames)\n",
			*inPath, *outPath, stats.rate, stats.channels, stats.bitDepth, stats.frames)
	}

	return nil
}

func loadDesign(ed *zplane.Editor, zpkPath, bFlag, aFlag string, verbose bool) error {
	if zpkPath != "" {
		f, err := os.Open(zpkPath)
		if err != nil {
			return fmt.Errorf("failed to open design: %w", err)
		}
		defer func() { _ = f.Close() }()

		if verbose {
			log.Printf("Design: %s", zpkPath)
		}

		return ed.Import(f)
	}

	b, err := parseCoefficients(bFlag)
	if err != nil {
		return fmt.Errorf("-b: %w", err)
	}

	a, err := parseCoefficients(aFlag)
	if err != nil {
		return fmt.Errorf("-a: %w", err)
	}

	if verbose {
		log.Printf("Design: b=%v a=%v", b, a)
	}

	tf := zpk.TransferFunction{B: b, A: a}

	z, err := zpk.FromTransferFunction(tf)
	if err != nil {
		return err
	}

	if err := ed.SetGain(z.Gain); err != nil {
		return err
	}

	return ed.LoadTransferFunction(tf)
}

func printDesign(ed *zplane.Editor) error {
	st := ed.State()
	tf := ed.TransferFunction()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, z := range st.Zeros {
		fmt.Fprintf(tw, "zero\t%s\t|z|=%.6f\n", formatPoint(z), abs(z))
	}
	for _, p := range st.Poles {
		fmt.Fprintf(tw, "pole\t%s\t|p|=%.6f\n", formatPoint(p), abs(p))
	}
	fmt.Fprintf(tw, "gain\t%g\t\n", ed.Gain())
	fmt.Fprintf(tw, "b\t%s\t\n", formatCoefficients(tf.B))
	fmt.Fprintf(tw, "a\t%s\t\n", formatCoefficients(tf.A))

	stable := "yes"
	if !zpk.IsStable(st.Poles) {
		stable = "no"
	}
	fmt.Fprintf(tw, "stable\t%s\tmargin=%.6f\n", stable, zpk.StabilityMargin(st.Poles))

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

func printResponse(r zpk.Response, rows int) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\nOmega [rad]\tMagnitude\tMagnitude [dB]\tPhase [rad]\n")
	fmt.Fprintf(tw, "-----------\t---------\t--------------\t-----------\n")

	for _, i := range sampleIndices(r.Len(), rows) {
		fmt.Fprintf(tw, "%.4f\t%.6f\t%.2f\t%.4f\n", r.Omega[i], r.Magnitude[i], r.MagnitudeDB[i], r.Phase[i])
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

func exportDesign(ed *zplane.Editor, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	return ed.Export(f)
}
