package price

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/petrolfinder/backend-go/internal/config"
	"github.com/petrolfinder/backend-go/pkg/http/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const priceListingPage = `
<html><body>
<h1>Latest fuel prices</h1>
<p>Petrol 93 Unleaded: R 23.76 per litre</p>
<p>Premium 95 Unleaded: R 24.45 per litre</p>
<p>Diesel: R 22.91 per litre</p>
</body></html>`

func scrapeClient(fn func(ctx context.Context, path string) (*client.Response, error)) *client.Client {
	c := client.New(client.Options{})
	c.GetFunc = fn
	return c
}

func TestGetBaselinesScrapesFirstWorkingSource(t *testing.T) {
	var requested []string
	httpClient := scrapeClient(func(_ context.Context, path string) (*client.Response, error) {
		requested = append(requested, path)
		if len(requested) == 1 {
			return nil, errors.New("connection refused")
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(priceListingPage)}, nil
	})

	service := NewBaselineService(httpClient, nil, nil)
	baselines, err := service.GetBaselines(context.Background(), "Johannesburg", "")
	require.NoError(t, err)

	assert.Len(t, requested, 2)
	assert.Equal(t, "scraped", baselines.Source)
	assert.Equal(t, 23.76, baselines.Regular)
	assert.Equal(t, 24.45, baselines.Premium)
	assert.Equal(t, 22.91, baselines.Diesel)
}

func TestGetBaselinesCachesScrapedPrices(t *testing.T) {
	calls := 0
	httpClient := scrapeClient(func(_ context.Context, _ string) (*client.Response, error) {
		calls++
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(priceListingPage)}, nil
	})

	service := NewBaselineService(httpClient, nil, nil)
	_, err := service.GetBaselines(context.Background(), "Johannesburg", "")
	require.NoError(t, err)
	_, err = service.GetBaselines(context.Background(), "Pretoria", "")
	require.NoError(t, err)

	// Same province, so the second call is served from cache.
	assert.Equal(t, 1, calls)
}

func TestGetBaselinesRejectsImplausiblePrices(t *testing.T) {
	page := `<p>Petrol 93 Unleaded: R 99.99</p><p>Premium 95 Unleaded: R 98.50</p><p>Diesel: R 97.00</p>`
	httpClient := scrapeClient(func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(page)}, nil
	})

	service := NewBaselineService(httpClient, nil, nil)
	baselines, err := service.GetBaselines(context.Background(), "Cape Town", "")
	require.NoError(t, err)

	// Everything implausible, so the regional fallback applies.
	assert.Equal(t, "fallback_regional", baselines.Source)
	assert.InDelta(t, 23.50-0.10, baselines.Regular, 0.001)
}

func TestGetBaselinesRegionalFallback(t *testing.T) {
	httpClient := scrapeClient(func(_ context.Context, _ string) (*client.Response, error) {
		return nil, errors.New("all sources down")
	})
	pricing := config.DefaultPricingConfig()

	tests := []struct {
		name            string
		city            string
		expectedSource  string
		expectedRegular float64
	}{
		{name: "gauteng offset", city: "Sandton", expectedSource: "fallback_regional", expectedRegular: 23.55},
		{name: "western cape offset", city: "Stellenbosch", expectedSource: "fallback_regional", expectedRegular: 23.40},
		{name: "unknown region", city: "Windhoek", expectedSource: "fallback_base", expectedRegular: 23.50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewBaselineService(httpClient, pricing, nil)
			baselines, err := service.GetBaselines(context.Background(), tt.city, "")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSource, baselines.Source)
			assert.InDelta(t, tt.expectedRegular, baselines.Regular, 0.001)
		})
	}
}

func TestScrapeOneRejectsEmptyPage(t *testing.T) {
	httpClient := scrapeClient(func(_ context.Context, _ string) (*client.Response, error) {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte("<html>no prices here</html>")}, nil
	})

	service := NewBaselineService(httpClient, nil, nil)
	_, err := service.scrapeOne(context.Background(), "https://example.test/prices")
	assert.Error(t, err)
}
