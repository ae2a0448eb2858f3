package examples

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/suitetree/pkg/discovery"
	"github.com/roach88/suitetree/pkg/launcher"
	"github.com/roach88/suitetree/pkg/report"
	"github.com/roach88/suitetree/pkg/suitetest"
)

func TestRegister(t *testing.T) {
	reg := discovery.NewRegistry()
	Register(reg)

	var names []string
	for _, s := range reg.Suites() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Calculator", "Workspace"}, names)
}

func TestRegisteredWithDefault(t *testing.T) {
	var names []string
	for _, s := range discovery.Default.Suites() {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "Calculator")
	assert.Contains(t, names, "Workspace")
}

func TestSuitesPass(t *testing.T) {
	reg := discovery.NewRegistry()
	Register(reg)

	plan, err := discovery.Discover(reg)
	require.NoError(t, err)
	require.Empty(t, plan.Failures)

	col := report.NewCollector()
	_, err = launcher.New().Run(plan, col)
	require.NoError(t, err)

	assert.False(t, col.Failed(), "failures: %v", col.Failures())
	s := col.Summary()
	assert.Equal(t, 6, s.Tests)
	assert.Equal(t, 1, s.Skipped)
}

func TestCalculator(t *testing.T) {
	col := suitetest.Run(t, "Calculator", calculatorSuite)
	assert.Equal(t, 4, col.Summary().Tests)
}

func TestWorkspace(t *testing.T) {
	suitetest.Run(t, "Workspace", workspaceSuite)
}
