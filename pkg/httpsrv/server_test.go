package httpsrv

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnitReadPage(t *testing.T) {
	tests := map[string]struct {
		query    string
		expected Page
	}{
		"defaults":           {query: "", expected: Page{Limit: 50}},
		"explicit":           {query: "?limit=20&offset=40", expected: Page{Limit: 20, Offset: 40}},
		"huge limit":         {query: "?limit=100000000", expected: Page{Limit: MaxLimit}},
		"negative values":    {query: "?limit=-1&offset=-10", expected: Page{Limit: 50}},
		"not a number":       {query: "?limit=all", expected: Page{Limit: 50}},
		"limit at the bound": {query: "?limit=100", expected: Page{Limit: 100}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/campaigns"+tc.query, nil)

			require.Equal(t, tc.expected, ReadPage(r, 50))
		})
	}
}
