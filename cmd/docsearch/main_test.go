package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willianpinho/document-management-system-sub001/internal/config"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/algorithm"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/request"
	"github.com/willianpinho/document-management-system-sub001/internal/domain/search/result"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "embed", "search"} {
		assert.Contains(t, names, want)
	}
}

func TestMigrateCmd_RejectsDirection(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "sideways"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestSearchCmd_ValidatesBeforeConnecting(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"search", "not-a-uuid", "invoice"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "organization_id")
}

func TestSearchMode(t *testing.T) {
	for _, m := range []string{"text", "semantic", "hybrid"} {
		_, err := searchMode(m)
		assert.NoError(t, err, m)
	}
	_, err := searchMode("fuzzy")
	assert.Error(t, err)
}

func TestPrintResults(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	err := printResults(cmd, result.Response{
		Results: []result.Result{{ID: "d1", Name: "Invoice.pdf", Score: 0.5, Snippet: "total due"}},
		Meta:    result.Meta{Algorithm: algorithm.Hybrid, Total: 1, Page: 1, TotalPages: 1, Took: 12 * time.Millisecond},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "hybrid: 1 results, page 1/1, 12ms", lines[0])
	assert.Contains(t, lines[2], "Invoice.pdf")
	assert.Contains(t, lines[2], "0.5000")
}

func TestSearchDefaults_FromConfig(t *testing.T) {
	d := searchDefaults(config.SearchConfig{
		DefaultLimit: 15, MaxLimit: 60, DefaultThreshold: 0.5, TextWeight: 0.4, SemanticWeight: 0.6,
	})

	req, err := request.New(request.Params{
		OrganizationID: "0f8fad5b-d9cb-469f-a165-70867728950e",
		Query:          "invoice",
		Limit:          200,
		Defaults:       &d,
	})
	require.NoError(t, err)
	assert.Equal(t, 60, req.Limit())
	assert.Equal(t, 0.5, req.Threshold())
	assert.Equal(t, 0.4, req.TextWeight())
	assert.Equal(t, 0.6, req.SemanticWeight())
}
