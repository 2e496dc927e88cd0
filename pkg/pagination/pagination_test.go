package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestConstants tests the package constants
func TestConstants(t *testing.T) {
	if DefaultLimit != 20 {
		t.Errorf("DefaultLimit = %d, want 20", DefaultLimit)
	}
	if MaxLimit != 100 {
		t.Errorf("MaxLimit = %d, want 100", MaxLimit)
	}
	if DefaultOffset != 0 {
		t.Errorf("DefaultOffset = %d, want 0", DefaultOffset)
	}
}

// TestParseParams tests the ParseParams function
func TestParseParams(t *testing.T) {
	tests := []struct {
		name           string
		queryString    string
		expectedLimit  int
		expectedOffset int
	}{
		{
			name:           "no params uses defaults",
			queryString:    "",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "valid limit and offset",
			queryString:    "limit=10&offset=20",
			expectedLimit:  10,
			expectedOffset: 20,
		},
		{
			name:           "limit above max is capped",
			queryString:    "limit=500",
			expectedLimit:  MaxLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "zero limit falls back to default",
			queryString:    "limit=0",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "negative offset falls back to default",
			queryString:    "offset=-5",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
		{
			name:           "non-numeric values fall back to defaults",
			queryString:    "limit=abc&offset=xyz",
			expectedLimit:  DefaultLimit,
			expectedOffset: DefaultOffset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/?"+tt.queryString, nil)

			params := ParseParams(c)
			if params.Limit != tt.expectedLimit {
				t.Errorf("Limit = %d, want %d", params.Limit, tt.expectedLimit)
			}
			if params.Offset != tt.expectedOffset {
				t.Errorf("Offset = %d, want %d", params.Offset, tt.expectedOffset)
			}
		})
	}
}

// TestBuildMeta tests the BuildMeta function
func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name            string
		limit           int
		offset          int
		total           int64
		expectedHasMore bool
	}{
		{"first page with more", 20, 0, 50, true},
		{"last page exact", 20, 40, 50, false},
		{"single page", 20, 0, 5, false},
		{"empty result", 20, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.limit, tt.offset, tt.total)
			if meta.Total != tt.total {
				t.Errorf("Total = %d, want %d", meta.Total, tt.total)
			}
			if meta.HasMore != tt.expectedHasMore {
				t.Errorf("HasMore = %v, want %v", meta.HasMore, tt.expectedHasMore)
			}
		})
	}
}
