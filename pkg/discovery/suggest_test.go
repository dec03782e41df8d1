package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/dotinstall/pkg/discovery"
)

func TestSuggest(t *testing.T) {
	candidates := []discovery.Candidate{
		{Package: discovery.Package{Name: "nvim"}, Found: true},
		{Package: discovery.Package{Name: "vim"}, Found: true},
		{Package: discovery.Package{Name: "zsh"}, Found: true},
		{Package: discovery.Package{Name: "vimwiki"}, Found: false},
	}

	assert.Contains(t, discovery.Suggest("vm", candidates), "vim")
	assert.NotContains(t, discovery.Suggest("vm", candidates), "vimwiki")
	assert.Equal(t, []string{"zsh"}, discovery.Suggest("zs/", candidates))
	assert.Empty(t, discovery.Suggest("qqq", candidates))
	assert.Empty(t, discovery.Suggest("vim", nil))
}
