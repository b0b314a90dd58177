package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/algorithm"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
	searchuc "github.com/willianpinho/document-management-system-sub001/internal/usecase/search"
)

func searchCmd(env *string) *cobra.Command {
	var (
		mode   string
		page   int
		limit  int
		rerank bool
	)

	cmd := &cobra.Command{
		Use:   "search <organization-id> <query>",
		Short: "Run a search from the command line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := request.Params{
				OrganizationID: args[0],
				Query:          args[1],
				Page:           page,
				Limit:          limit,
				Rerank:         rerank,
			}
			// reject bad input before connecting
			if _, err := request.New(params); err != nil {
				return err
			}
			run, err := searchMode(mode)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.Close()

			params.Defaults = &a.defaults
			req, err := request.New(params)
			if err != nil {
				return err
			}

			resp, err := run(a.search)(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printResults(cmd, resp)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(algorithm.Text), "text, semantic or hybrid")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "results per page (0 uses search.default_limit)")
	cmd.Flags().BoolVar(&rerank, "rerank", false, "rerank the top results with the LLM")
	return cmd
}

type searchFunc func(ctx context.Context, req *request.Request) (result.Response, error)

func searchMode(mode string) (func(*searchuc.Service) searchFunc, error) {
	switch algorithm.Algorithm(mode) {
	case algorithm.Text:
		return func(s *searchuc.Service) searchFunc { return s.Search }, nil
	case algorithm.Semantic:
		return func(s *searchuc.Service) searchFunc { return s.SemanticSearch }, nil
	case algorithm.Hybrid:
		return func(s *searchuc.Service) searchFunc { return s.HybridSearch }, nil
	default:
		return nil, fmt.Errorf("unknown mode %q (text, semantic or hybrid)", mode)
	}
}

func printResults(cmd *cobra.Command, resp result.Response) error {
	out := cmd.OutOrStdout()
	m := resp.Meta
	fmt.Fprintf(out, "%s: %d results, page %d/%d, %dms\n",
		m.Algorithm, m.Total, m.Page, m.TotalPages, m.Took.Milliseconds())

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tID\tNAME\tSNIPPET")
	for _, r := range resp.Results {
		fmt.Fprintf(w, "%.4f\t%s\t%s\t%s\n", r.Score, r.ID, r.Name, r.Snippet)
	}
	return w.Flush()
}
