package match

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fetchanything/pkg/utils"
)

func TestCompileFilter_Matches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{"WildcardExtension", "*.pdf", "http://x/report.pdf", true},
		{"WildcardNestedPath", "*.pdf", "http://x/x/y/old.report.pdf", true},
		{"WildcardOtherExtension", "*.pdf", "http://x/report.docx", false},
		{"ImplicitLeadingWildcard", "report.pdf", "http://x/old_report.pdf", true},
		{"ExactName", "report.pdf", "http://x/report.pdf", true},
		{"NoEndAnchor", "report.pdf", "http://x/report.pdf.bak", true},
		{"DotIsAnyChar", "*.pdf", "http://x/reportxpdf", true},
		{"DirectoryNotMatched", "*.pdf", "http://x/pdfs/", false},
		{"OnlyFinalSegment", "docs", "http://x/docs/index.html", false},
		{"QueryPartOfSegment", "*.zip", "http://x/get?file=a.zip", true},
		{"DefaultMatchesEverything", "*", "http://x/index.html", true},
		{"DefaultMatchesEmptySegment", "*", "http://x/b/", true},
		{"MiddleWildcard", "data*.csv", "http://x/data-2024.csv", true},
		{"MiddleWildcardMiss", "data*.csv", "http://x/data-2024.tsv", false},
		{"DecodedSpace", "annual report*", "http://x/annual%20report.pdf", true},
		{"DecodedNonASCII", "ü*", "http://x/%C3%BC.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := CompileFilter(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Matches(tt.url), "pattern %q (expr %q) on %q", tt.pattern, m.Expr(), tt.url)
		})
	}
}

func TestCompileFilter_Expr(t *testing.T) {
	tests := []struct {
		pattern string
		expr    string
	}{
		{"*", "^(?:.*)"},
		{"*.pdf", "^(?:.*.pdf)"},
		{"report.pdf", "^(?:.*report.pdf)"},
	}

	for _, tt := range tests {
		m, err := CompileFilter(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.expr, m.Expr())
		assert.Equal(t, tt.pattern, m.String())
	}
}

func TestCompileFilter_InvalidPattern(t *testing.T) {
	_, err := CompileFilter("file[.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, utils.ErrConfigValidation))
}
