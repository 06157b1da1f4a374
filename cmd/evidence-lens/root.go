package main

import (
	"github.com/spf13/cobra"

	"evidence-lens/internal/core/app"
	"evidence-lens/internal/platform/config"
)

// cli guarda la configuración resuelta para los subcomandos.
type cli struct {
	flags *config.Flags
	cfg   *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "evidence-lens",
		Short: "Forensic triage for cybercrime evidence",
		Long: `evidence-lens turns a victim's evidence (text and an optional file) into a
structured report: extracted artifacts, incident category, file hashes and
DNS/WHOIS/RDAP/ASN enrichment of every URL and IP found.

API keys are read from GOOGLE_API_KEY and OPENAI_API_KEY, or from the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.flags.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			if err := app.ConfigureLogging(cfg); err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}
	c.flags = config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newAnalyzeCmd(c),
		newExtractCmd(),
		newDigestCmd(),
		newGuidanceCmd(c),
		newCategoriesCmd(),
		newServeCmd(c),
	)
	return root
}
