package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/PSeitz/veloci-sub001/internal/engine"
	"github.com/PSeitz/veloci-sub001/model"
	"github.com/PSeitz/veloci-sub001/services"
)

const (
	flagIndex   = "index"
	flagRequest = "request"
	flagQuery   = "query"
	flagExplain = "explain"
)

func newSearchCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "search",
		Short: "Run a search against a persisted index",
		Long: `Runs a request tree (JSON, from a file or "-" for stdin) or a free-text query
against an index in the data directory and prints the result as JSON.`,
		Example: `  search_engine search --index movies --query "matrix reloaded"
  search_engine search --index movies --request request.json`,
		Args: cobra.NoArgs,
		RunE: runSearch,
	}
	c.Flags().StringP(flagIndex, "i", "", "Name of the index to search")
	c.Flags().StringP(flagRequest, "r", "", `Request JSON file, "-" reads stdin`)
	c.Flags().StringP(flagQuery, "q", "", "Free-text query searched in every field")
	c.Flags().Bool(flagExplain, false, "Include score explanations")
	_ = c.MarkFlagRequired(flagIndex)
	c.MarkFlagsMutuallyExclusive(flagRequest, flagQuery)
	c.MarkFlagsOneRequired(flagRequest, flagQuery)
	return c
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	indexName, _ := cmd.Flags().GetString(flagIndex)
	requestPath, _ := cmd.Flags().GetString(flagRequest)
	query, _ := cmd.Flags().GetString(flagQuery)
	explain, _ := cmd.Flags().GetBool(flagExplain)

	indexAccessor, err := engine.NewEngine(cfg).GetIndex(indexName)
	if err != nil {
		return err
	}

	var result services.SearchResult
	if requestPath != "" {
		request, err := readRequest(cmd.InOrStdin(), requestPath)
		if err != nil {
			return err
		}
		request.Explain = request.Explain || explain
		result, err = indexAccessor.Search(cmd.Context(), request)
		if err != nil {
			return err
		}
	} else {
		result, err = indexAccessor.SearchQuery(cmd.Context(), services.QueryParams{Query: query, Explain: explain})
		if err != nil {
			return err
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func readRequest(stdin io.Reader, path string) (model.Request, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("failed to read request: %w", err)
	}

	var request model.Request
	if err := json.Unmarshal(data, &request); err != nil {
		return model.Request{}, fmt.Errorf("failed to parse request: %w", err)
	}
	return request, nil
}
