package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/s0up4200/hyprest/hypothesis"
)

var (
	filterExpr string
	preset     string
	search     searchFlags
)

type searchFlags struct {
	uri, url, wildcardURI string
	user, group, tag      string
	tags                  []string
	anyText, quote, text  string
	references            string
	sort, order           string
	searchAfter           string
	limit, offset         int
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search annotations",
	Long: `Search annotations with the API's search parameters, then optionally narrow
the results locally with a filter expression or a preset from the config file.

Filter expressions can use ID, User, URI, Text, Tags, Group, Hidden, Flagged,
Created, Updated, Title, IsReply and DisplayName, and the helpers hasTag,
contains, startsWith, endsWith, lower, upper, daysSince, daysAgo, parseDate
and now. For example:

  hyprest search --group __world__ --filter 'hasTag("review") and daysSince(Created) < 7'`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	f := searchCmd.Flags()
	f.StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the results")
	f.StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	f.StringVar(&search.uri, "uri", "", "only annotations of this document URI")
	f.StringVar(&search.url, "url", "", "alias of --uri")
	f.StringVar(&search.wildcardURI, "wildcard-uri", "", "URI pattern with * and _ wildcards")
	f.StringVar(&search.user, "user", "", "only annotations by this user")
	f.StringVar(&search.group, "group", "", "only annotations in this group")
	f.StringVar(&search.tag, "tag", "", "only annotations with this tag")
	f.StringSliceVar(&search.tags, "tags", nil, "only annotations with all of these tags")
	f.StringVar(&search.anyText, "any", "", "search the quote, tags, text, URL and user fields")
	f.StringVar(&search.quote, "quote", "", "search the quoted text")
	f.StringVar(&search.text, "text", "", "search the annotation text")
	f.StringVar(&search.references, "references", "", "only replies to this annotation")
	f.StringVar(&search.sort, "sort", "", "sort field: created, updated, id, group or user")
	f.StringVar(&search.order, "order", "", "sort order: asc or desc")
	f.StringVar(&search.searchAfter, "search-after", "", "return results after this sort value")
	f.IntVar(&search.limit, "limit", 20, "maximum number of results (0-200)")
	f.IntVar(&search.offset, "offset", 0, "number of results to skip")

	searchCmd.MarkFlagsMutuallyExclusive("filter", "preset")
}

func (s searchFlags) query(cmd *cobra.Command) hypothesis.SearchQuery {
	q := hypothesis.SearchQuery{
		URI:         s.uri,
		URL:         s.url,
		WildcardURI: s.wildcardURI,
		User:        s.user,
		Group:       s.group,
		Tag:         s.tag,
		Tags:        s.tags,
		Any:         s.anyText,
		Quote:       s.quote,
		Text:        s.text,
		References:  s.references,
		Sort:        s.sort,
		Order:       s.order,
		SearchAfter: s.searchAfter,
	}
	if cmd.Flags().Changed("limit") {
		q.Limit = &s.limit
	}
	if cmd.Flags().Changed("offset") {
		q.Offset = &s.offset
	}
	return q
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	query := search.query(cmd)
	logger.Debug().Interface("query", query.Params()).Msg("Searching annotations")

	result, err := client.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	rows := result.Rows
	switch {
	case filterExpr != "":
		rows, err = filters.EvaluateExpression(ctx, filterExpr, rows)
	case preset != "":
		rows, err = filters.EvaluateFilter(ctx, strings.ToLower(preset), rows)
	}
	if err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	if len(rows) != len(result.Rows) {
		logger.Info().
			Int("fetched", len(result.Rows)).
			Int("matched", len(rows)).
			Msg("Filter applied")
	}

	return out.annotations(result.Total, rows)
}
