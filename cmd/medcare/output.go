package medcare

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/GogikarMahashri/MEDCARE-QR/pkg/models"
)

const disclaimer = "This is not a medical diagnosis. Please consult a healthcare professional."

func outputJSON(w io.Writer, result *models.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printResult(w io.Writer, r *models.AnalysisResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bold.Fprintln(w, "POSSIBLE CONDITIONS")
	_, _ = dim.Fprintln(w, disclaimer)
	fmt.Fprintln(w)

	if r.Empty() {
		fmt.Fprintln(w, "No suggestions were returned. If your symptoms persist or worsen, see a doctor.")
		return
	}

	for i, c := range r.PossibleConditions {
		_, _ = dim.Fprintf(w, "%d. ", i+1)
		fmt.Fprintln(w, c)
	}
}

func printFooter(w io.Writer, strategy string, elapsed time.Duration) {
	dim := color.New(color.FgHiBlack)
	fmt.Fprintln(w)
	_, _ = dim.Fprintln(w, strings.Repeat("-", 60))
	_, _ = dim.Fprintf(w, "Strategy: %s | %.1fs\n", strategy, elapsed.Seconds())
	if strategy == "mock" {
		yellow := color.New(color.FgYellow)
		_, _ = yellow.Fprintln(w, "Tip: these are canned suggestions. Set ANALYSIS_STRATEGY=generative for model output.")
	}
}
