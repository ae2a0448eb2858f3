package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/tree"
)

func TestListCommandText(t *testing.T) {
	stdout, _, err := execute(t, passingRegistry(), "list")

	require.NoError(t, err)
	assert.Equal(t, ""+
		"group Calculator\n"+
		"  test adds\n"+
		"  test divides (disabled)\n"+
		"group Parser\n"+
		"  group tokens\n"+
		"    test splits\n", stdout)
}

func TestListCommandRunsNothing(t *testing.T) {
	ran := false
	reg := discovery.NewRegistry()
	reg.MustRegister(discovery.Suite{
		Name: "S",
		Build: func(g *tree.Group) {
			g.BeforeGroup(func() error { ran = true; return nil })
			g.Test("t", func() error { ran = true; return nil })
		},
	})

	_, _, err := execute(t, reg, "list")

	require.NoError(t, err)
	assert.False(t, ran)
}

func TestListCommandJSON(t *testing.T) {
	stdout, _, err := execute(t, passingRegistry(), "list", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ListResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Suites, 2)

	calc := resp.Data.Suites[0]
	assert.Equal(t, "[engine:suitetree]/[group:Calculator]", calc.ID)
	require.Len(t, calc.Children, 2)
	assert.Equal(t, "[engine:suitetree]/[group:Calculator]/[test:divides]", calc.Children[1].ID)
	assert.False(t, calc.Children[1].Enabled)
}

func TestListCommandBuildFailure(t *testing.T) {
	stdout, _, err := execute(t, failingRegistry(), "list")

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "suite broken (build failed)\n    build suite \"broken\": panic: no\n")
}

func TestListCommandFilter(t *testing.T) {
	stdout, _, err := execute(t, passingRegistry(), "list", "--filter", "Parser")

	require.NoError(t, err)
	assert.NotContains(t, stdout, "Calculator")
	assert.Contains(t, stdout, "group Parser")
}

func TestListCommandEmpty(t *testing.T) {
	stdout, _, err := execute(t, passingRegistry(), "list", "--filter", "nothing")

	require.NoError(t, err)
	assert.Equal(t, "No suites found.\n", stdout)
}
