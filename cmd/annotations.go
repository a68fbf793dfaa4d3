package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/hyprest/hypothesis"
)

// maxConcurrentFetches bounds parallel requests for multi-id commands
const maxConcurrentFetches = 5

var annotationInput struct {
	uri     string
	text    string
	tags    []string
	group   string
	quote   string
	title   string
	replyTo string
}

// annotationsCmd represents the annotations command
var annotationsCmd = &cobra.Command{
	Use:     "annotations",
	Aliases: []string{"annotation", "a"},
	Short:   "Fetch, create and moderate annotations",
}

var annotationsGetCmd = &cobra.Command{
	Use:   "get <id>...",
	Short: "Fetch one or more annotations by ID",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnnotationsGet,
}

var annotationsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an annotation",
	Long: `Create an annotation on a document. With --quote the annotation is anchored
to that exact passage; without it a page note is created.`,
	Args: cobra.NoArgs,
	RunE: runAnnotationsCreate,
}

var annotationsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update the text or tags of an annotation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationsUpdate,
}

var annotationsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an annotation",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotationsDelete,
}

var annotationsFlagCmd = &cobra.Command{
	Use:   "flag <id>",
	Short: "Flag an annotation for moderation",
	Args:  cobra.ExactArgs(1),
	RunE: runAnnotationAction("flagged", func(a hypothesis.APIKeyAnnotations) func(context.Context, string) (bool, error) {
		return a.FlagAnnotation
	}),
}

var annotationsHideCmd = &cobra.Command{
	Use:   "hide <id>",
	Short: "Hide an annotation (group moderators only)",
	Args:  cobra.ExactArgs(1),
	RunE: runAnnotationAction("hidden", func(a hypothesis.APIKeyAnnotations) func(context.Context, string) (bool, error) {
		return a.HideAnnotation
	}),
}

var annotationsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a hidden annotation again (group moderators only)",
	Args:  cobra.ExactArgs(1),
	RunE: runAnnotationAction("shown", func(a hypothesis.APIKeyAnnotations) func(context.Context, string) (bool, error) {
		return a.ShowAnnotation
	}),
}

func init() {
	rootCmd.AddCommand(annotationsCmd)
	annotationsCmd.AddCommand(
		annotationsGetCmd,
		annotationsCreateCmd,
		annotationsUpdateCmd,
		annotationsDeleteCmd,
		annotationsFlagCmd,
		annotationsHideCmd,
		annotationsShowCmd,
	)

	f := annotationsCreateCmd.Flags()
	f.StringVar(&annotationInput.uri, "uri", "", "URI of the annotated document (required)")
	f.StringVar(&annotationInput.text, "text", "", "annotation body")
	f.StringSliceVar(&annotationInput.tags, "tag", nil, "tag to add (repeatable)")
	f.StringVar(&annotationInput.group, "group", "", "group ID (default is the public group)")
	f.StringVar(&annotationInput.quote, "quote", "", "exact passage to anchor to")
	f.StringVar(&annotationInput.title, "title", "", "document title")
	f.StringVar(&annotationInput.replyTo, "reply-to", "", "ID of the annotation this replies to")
	_ = annotationsCreateCmd.MarkFlagRequired("uri")

	f = annotationsUpdateCmd.Flags()
	f.StringVar(&annotationInput.text, "text", "", "new annotation body")
	f.StringSliceVar(&annotationInput.tags, "tag", nil, "replace tags (repeatable)")
}

func runAnnotationsGet(cmd *cobra.Command, args []string) error {
	fetcher, err := annotationFetcherFor(client)
	if err != nil {
		return err
	}

	annotations, err := fetchAnnotations(cmd.Context(), fetcher, args)
	if len(annotations) > 0 {
		if printErr := out.annotations(len(annotations), annotations); printErr != nil {
			return printErr
		}
	}
	return err
}

// fetchAnnotations fetches ids concurrently. Every failure is reported, and
// the annotations that could be fetched are returned in argument order.
func fetchAnnotations(ctx context.Context, fetcher annotationFetcher, ids []string) ([]hypothesis.Annotation, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	results := make([]*hypothesis.Annotation, len(ids))
	var (
		mu     sync.Mutex
		result *multierror.Error
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)

	for i, id := range ids {
		g.Go(func() error {
			annotation, err := fetcher.FetchAnnotation(ctx, id)
			if err != nil {
				logger.Warn().Err(err).Str("id", id).Msg("Failed to fetch annotation")
				mu.Lock()
				result = multierror.Append(result, fmt.Errorf("annotation %s: %w", id, err))
				mu.Unlock()
				return nil
			}
			results[i] = annotation
			return nil
		})
	}
	_ = g.Wait()

	annotations := make([]hypothesis.Annotation, 0, len(ids))
	for _, a := range results {
		if a != nil {
			annotations = append(annotations, *a)
		}
	}
	return annotations, result.ErrorOrNil()
}

func runAnnotationsCreate(cmd *cobra.Command, args []string) error {
	annotations, err := annotationEditorFor(client)
	if err != nil {
		return err
	}

	input := hypothesis.NewAnnotation{
		URI:   annotationInput.uri,
		Text:  annotationInput.text,
		Tags:  annotationInput.tags,
		Group: annotationInput.group,
	}
	if annotationInput.title != "" {
		input.Document = &hypothesis.NewDocument{Title: []string{annotationInput.title}}
	}
	if annotationInput.quote != "" {
		input.Target = &hypothesis.NewTarget{Selector: []hypothesis.Selector{
			{Type: hypothesis.SelectorTextQuote, Exact: annotationInput.quote},
		}}
	}
	if annotationInput.replyTo != "" {
		input.References = []string{annotationInput.replyTo}
	}

	created, err := annotations.CreateAnnotation(cmd.Context(), input)
	if err != nil {
		return fmt.Errorf("failed to create annotation: %w", err)
	}

	logger.Info().Str("id", created.ID).Msg("Annotation created")
	return out.annotation(created)
}

func runAnnotationsUpdate(cmd *cobra.Command, args []string) error {
	annotations, err := annotationEditorFor(client)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("text") && !cmd.Flags().Changed("tag") {
		return fmt.Errorf("nothing to update: set --text or --tag")
	}

	ctx := cmd.Context()
	current, err := annotations.FetchAnnotation(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch annotation: %w", err)
	}

	input := hypothesis.NewAnnotation{URI: current.URI, Text: current.Text, Tags: current.Tags}
	if cmd.Flags().Changed("text") {
		input.Text = annotationInput.text
	}
	if cmd.Flags().Changed("tag") {
		input.Tags = annotationInput.tags
	}

	updated, err := annotations.UpdateAnnotation(ctx, args[0], input)
	if err != nil {
		return fmt.Errorf("failed to update annotation: %w", err)
	}
	return out.annotation(updated)
}

func runAnnotationsDelete(cmd *cobra.Command, args []string) error {
	annotations, err := annotationEditorFor(client)
	if err != nil {
		return err
	}

	id, err := annotations.DeleteAnnotation(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to delete annotation: %w", err)
	}
	return out.message(map[string]any{"id": id, "deleted": true}, fmt.Sprintf("✓ Annotation %s deleted", id))
}

// runAnnotationAction builds the RunE of the moderation commands
func runAnnotationAction(done string, action func(hypothesis.APIKeyAnnotations) func(context.Context, string) (bool, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		annotations, err := annotationEditorFor(client)
		if err != nil {
			return err
		}

		ok, err := action(annotations)(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("annotation %s: %w", args[0], err)
		}
		return out.message(map[string]any{"id": args[0], done: ok}, fmt.Sprintf("✓ Annotation %s %s", args[0], done))
	}
}
