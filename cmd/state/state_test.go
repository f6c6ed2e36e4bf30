package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildEnvMap(t *testing.T) {
	t.Parallel()

	env := BuildEnvMap([]string{"A=1", "B=x=y", "EMPTY=", "BARE"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "EMPTY": "", "BARE": ""}, env)
}

func TestConsolidateGlobalFlags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		env  map[string]string
		want GlobalOptions
	}{
		{"nothing", map[string]string{}, GlobalOptions{}},
		{"no-color.org", map[string]string{"NO_COLOR": ""}, GlobalOptions{NoColor: true}},
		{"steplog no color", map[string]string{"STEPLOG_NO_COLOR": "1"}, GlobalOptions{NoColor: true}},
		{"empty steplog no color", map[string]string{"STEPLOG_NO_COLOR": ""}, GlobalOptions{}},
		{"verbose", map[string]string{"STEPLOG_VERBOSE": "true"}, GlobalOptions{Verbose: true}},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, consolidateGlobalFlags(GetDefaultGlobalOptions(), tc.env))
		})
	}
}
