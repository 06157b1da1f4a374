package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"evidence-lens/internal/adapters/httpapi"
	"evidence-lens/internal/adapters/report"
	"evidence-lens/internal/core/analysis"
	"evidence-lens/internal/core/app"
	"evidence-lens/internal/core/artifacts"
	"evidence-lens/internal/core/digest"
	perrors "evidence-lens/internal/platform/errors"
	"evidence-lens/internal/platform/logx"
)

// evidenceFlags son los flags de entrada compartidos por analyze y extract.
type evidenceFlags struct {
	text     string
	textFile string
}

func (f *evidenceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.text, "text", "", "Texto de la evidencia")
	cmd.Flags().StringVar(&f.textFile, "text-file", "", "Leer el texto de un fichero (- para stdin)")
}

// read devuelve el texto de --text, --text-file o los argumentos posicionales,
// en ese orden.
func (f *evidenceFlags) read(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case f.text != "":
		return f.text, nil
	case f.textFile == "-":
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	case f.textFile != "":
		raw, err := os.ReadFile(f.textFile)
		if err != nil {
			return "", perrors.WithSuggestion(fmt.Errorf("read %s: %w", f.textFile, err), "check the --text-file path")
		}
		return string(raw), nil
	default:
		return strings.Join(args, " "), nil
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAnalyzeCmd(c *cli) *cobra.Command {
	var (
		in        evidenceFlags
		file      string
		out       string
		view      string
		offline   bool
		rulesOnly bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Run the full pipeline on a piece of evidence",
		Long: `Extract artifacts, classify the incident, hash the evidence file and enrich
every URL and IP found. The report is written as JSON to --out, or to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := report.ParseView(view)
			if err != nil {
				return err
			}
			text, err := in.read(cmd, args)
			if err != nil {
				return err
			}
			input := analysis.EvidenceInput{Text: text}
			if file != "" {
				if _, err := os.Stat(file); err != nil {
					return perrors.WithSuggestion(fmt.Errorf("evidence file: %w", err), "check the --file path")
				}
				input.File = analysis.PathRef(file)
			}
			if err := input.Validate(); err != nil {
				return err
			}

			a := app.Build(c.cfg, app.Options{Offline: offline, RulesOnly: rulesOnly})
			var spin *logx.Spinner
			if !c.cfg.LogJSON {
				spin = logx.NewSpinner(cmd.ErrOrStderr(), "analyzing evidence")
				spin.Start()
			}
			rep, err := a.Analyzer.Analyze(cmd.Context(), input)
			if err != nil {
				if spin != nil {
					spin.Failure("analysis failed")
				}
				return err
			}
			if spin != nil {
				spin.Success(string(rep.Classification.Label))
			}
			logx.Info("analysis complete", logx.Fields{
				"id":        rep.ID,
				"label":     string(rep.Classification.Label),
				"artifacts": rep.Artifacts.Count(),
			})
			if out == "" || out == "-" {
				return report.Write(cmd.OutOrStdout(), rep, v)
			}
			if err := report.WriteFile(out, rep, v); err != nil {
				return err
			}
			logx.Infof("report written to %s", out)
			return nil
		},
	}
	in.register(cmd)
	f := cmd.Flags()
	f.StringVar(&file, "file", "", "Fichero de evidencia a hashear")
	f.StringVarP(&out, "out", "o", "", "Ruta de salida del reporte (default: stdout)")
	f.StringVar(&view, "view", string(report.ViewFull), "Vista: full, dashboard, detailed, envelope")
	f.BoolVar(&offline, "offline", false, "No hacer consultas DNS/WHOIS/RDAP")
	f.BoolVar(&rulesOnly, "rules-only", false, "Clasificar solo con reglas, sin proveedores")
	return cmd
}

func newExtractCmd() *cobra.Command {
	var in evidenceFlags
	cmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Print the artifacts found in the text",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := in.read(cmd, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), artifacts.Extract(text))
		},
	}
	in.register(cmd)
	return cmd
}

func newDigestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "digest <file>...",
		Short: "Compute MD5 and SHA-256 of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]analysis.DigestResult, 0, len(args))
			failed := 0
			for _, path := range args {
				res := digest.Compute(analysis.PathRef(path))
				if !res.OK() {
					failed++
				}
				results = append(results, res)
			}
			if err := writeJSON(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("digest: %d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func newGuidanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "guidance <description...>",
		Short: "Ask the providers for victim guidance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.Build(c.cfg, app.Options{Offline: true})
			g, err := a.Advisor.Guide(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			logx.Debug("guidance answered", logx.Fields{"provider": g.Provider})
			_, err = fmt.Fprintln(cmd.OutOrStdout(), g.Guidance)
			return err
		},
	}
}

type categoryInfo struct {
	Label analysis.Label `json:"label"`
	Legal []string       `json:"legal_references"`
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List incident categories and their legal references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := make([]categoryInfo, len(analysis.Categories))
			for i, l := range analysis.Categories {
				out[i] = categoryInfo{Label: l, Legal: analysis.LegalReferences(l)}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newServeCmd(c *cli) *cobra.Command {
	var rulesOnly bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis and guidance HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app.Build(c.cfg, app.Options{RulesOnly: rulesOnly})
			srv := httpapi.New(a.Analyzer, a.Advisor,
				httpapi.WithGatherer(a.Registry),
				httpapi.WithMaxUpload(c.cfg.MaxUploadSize),
			)
			return srv.ListenAndServe(cmd.Context(), c.cfg.ListenAddr)
		},
	}
	cmd.Flags().BoolVar(&rulesOnly, "rules-only", false, "Clasificar solo con reglas, sin proveedores")
	return cmd
}
