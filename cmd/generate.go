package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/pipeline"
)

// newGenerateCmd creates the 'generate' subcommand, which runs the article
// pipeline a fixed number of times and exits.
func newGenerateCmd() *cobra.Command {
	var (
		topic string
		count int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generates and publishes articles",
		Long: `Runs the full generation pipeline: topic research, drafting, fact-check,
quality gate, image acquisition, page assembly, persistence, site rebuild,
and publish. Each article is an isolated run; one failure never blocks the
next run.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			cfg := appInstance.Config()
			logger := appInstance.Logger()

			runs := cfg.Runner.ArticlesPerRun
			if count > 0 {
				runs = count
			}
			if topic != "" {
				// A forced topic is a single explicit request.
				runs = 1
			}

			runner := pipeline.NewRunner(appInstance.Pipeline(), runs, cfg.Cooldown(), logger)
			summary := runner.Run(cmd.Context(), pipeline.RunOptions{ForcedTopic: topic})

			for _, record := range summary.Succeeded {
				logger.Info("article online",
					zap.String("slug", record.Slug),
					zap.String("title", record.Title),
					zap.String("url", fmt.Sprintf("%s/posts/%s/", cfg.Site.SiteURL, record.Slug)))
			}
			if len(summary.Succeeded) == 0 && summary.Attempted > 0 {
				return fmt.Errorf("all %d runs failed", summary.Attempted)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "force a specific article topic (single run)")
	cmd.Flags().IntVar(&count, "count", 0, "number of articles to generate (overrides configuration)")
	return cmd
}
