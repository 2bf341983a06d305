package metrics

import (
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	tests := []struct {
		name   string
		method string
		route  string
		status int
		label  string
	}{
		{name: "list recipes", method: "GET", route: "/api/recipes/", status: 200, label: "/api/recipes/"},
		{name: "unauthorized download", method: "GET", route: "/api/recipes/download_shopping_cart/", status: 401, label: "/api/recipes/download_shopping_cart/"},
		{name: "unknown route", method: "GET", route: "", status: 404, label: "unmatched"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := HTTPRequestsTotal.WithLabelValues(tt.method, tt.label, strconv.Itoa(tt.status))
			before := testutil.ToFloat64(counter)

			RecordHTTPRequest(tt.method, tt.route, tt.status, 10*time.Millisecond)

			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}

func TestShoppingListDownloads(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads)
	ShoppingListDownloads.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ShoppingListDownloads))
}
