package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "my-agent", false},
		{"alphanumeric", "agent007", false},
		{"empty", "", false},
		{"hyphens_only", "---", false},
		{"underscore", "my_agent", true},
		{"space", "my agent", true},
		{"dot", "agent.v1", true},
		{"unicode", "agént", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "pre-child-v1", FullName("child", "pre-", "-v1"))
	assert.Equal(t, "child", FullName("child", "", ""))
}

func TestTrimName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		prefix string
		suffix string
		want   string
	}{
		{"both", "pre-child-v1", "pre-", "-v1", "child"},
		{"prefix_only", "pre-child", "pre-", "", "child"},
		{"suffix_only", "child-v1", "", "-v1", "child"},
		{"no_match", "child", "pre-", "-v1", "child"},
		{"prefix_absent", "child-v1", "pre-", "-v1", "child"},
		{"suffix_is_whole_name", "-v1", "", "-v1", ""},
		{"empty_affixes", "child", "", "", "child"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimName(tt.input, tt.prefix, tt.suffix))
		})
	}
}

func TestTrimNameIdempotent(t *testing.T) {
	once := TrimName("pre-child-v1", "pre-", "-v1")
	twice := TrimName(once, "pre-", "-v1")
	assert.Equal(t, once, twice)

	// Suffix equal to the whole remaining name must not strip recursively.
	once = TrimName("-v1", "", "-v1")
	assert.Equal(t, "", once)
	assert.Equal(t, "", TrimName(once, "", "-v1"))
}
