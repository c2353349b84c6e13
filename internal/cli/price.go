package cli

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"brewleaf/internal/catalog/seed"
	"brewleaf/internal/platform/config"
	"brewleaf/internal/pricing"
	"brewleaf/internal/recommendation/models"
	"brewleaf/pkg/money"
	"brewleaf/pkg/requestcontext"
)

func newPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "price <subtotal>",
		Short:   "Show shipping, tax and total for a subtotal",
		Example: "  brewctl price 49.99\n  brewctl price 50.00",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subtotal, err := money.Parse(args[0])
			if err != nil {
				return err
			}
			policy, err := pricing.PolicyFromConfig(config.FromEnv().Pricing)
			if err != nil {
				return err
			}
			breakdown, err := pricing.Quote(subtotal, policy)
			if err != nil {
				return err
			}
			return printJSON(cmd, breakdown)
		},
	}
}

const quizExample = `  brewctl quiz --flavor chocolate --flavor nutty --strength strong --adventure classic
  brewctl quiz --tea --flavor floral`

func newQuizCmd() *cobra.Command {
	var (
		tea       bool
		flavors   []string
		strength  string
		adventure string
	)
	cmd := &cobra.Command{
		Use:     "quiz",
		Short:   "Preview the quiz recommendations for a set of answers",
		Example: quizExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := requestcontext.WithTime(cmd.Context(), time.Now())
			doc, err := seed.Default()
			if err != nil {
				return err
			}
			if _, err := a.Seed(ctx, doc); err != nil {
				return err
			}

			res, err := a.Quiz.Submit(ctx, models.QuizAnswers{
				PrefersCoffee:  !tea,
				FlavorProfile:  flavors,
				StrengthPref:   models.Strength(strings.ToLower(strength)),
				AdventureLevel: models.Adventure(strings.ToLower(adventure)),
			})
			if err != nil {
				return err
			}
			names := make([]string, 0, len(res.Recommendations))
			for _, p := range res.Recommendations {
				names = append(names, p.Name)
			}
			return printJSON(cmd, map[string]any{"recommendations": names})
		},
	}
	cmd.Flags().BoolVar(&tea, "tea", false, "prefer tea over coffee")
	cmd.Flags().StringSliceVar(&flavors, "flavor", nil, "flavor tag, repeatable")
	cmd.Flags().StringVar(&strength, "strength", "medium", "mild, medium or strong")
	cmd.Flags().StringVar(&adventure, "adventure", "balanced", "classic, balanced or adventurous")
	return cmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
