// Package apiclient fetches exchange rates from an exchangeratesapi.io style
// HTTP endpoint.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"commission/feecalculator/appcontext"
	"commission/feecalculator/apperrors"
	"commission/feecalculator/currency"
)

const (
	// DefaultEndpoint is the latest-rates endpoint used when none is configured.
	DefaultEndpoint = "http://api.exchangeratesapi.io/v1/latest"
)

var errHTTPUnexpectedStatusCode = errors.New("unexpected http status code")
var errHTTPEndpointFormatting = errors.New("error formatting exchange rates endpoint")
var errHTTPBodyUnmarshall = errors.New("error unmarshalling HTTP response body")
var errMissingRates = errors.New("response has no rates")
var errRatesAPI = errors.New("error returned from exchange rates api")

// APIClient talks to the exchange rates API.
type APIClient struct {
	// a pointer to the http client to use.
	HTTPClient *http.Client
	// the latest-rates endpoint.
	Endpoint *url.URL
	// access key sent as the access_key query parameter.
	AccessKey string
}

// HTTPUnexpectedStatusCodeError is a error wrapper.
func HTTPUnexpectedStatusCodeError(statusCode int) error {
	return fmt.Errorf("%w, %d", errHTTPUnexpectedStatusCode, statusCode)
}

func HTTPEndpointFormattingError(endpoint string) error {
	return fmt.Errorf("%w, %s", errHTTPEndpointFormatting, endpoint)
}

func HTTPBodyUnmarshallError(baseErr error) error {
	return fmt.Errorf("%w, %w", errHTTPBodyUnmarshall, baseErr)
}

func RatesAPIError(errorMsg string) error {
	return fmt.Errorf("%w, %s", errRatesAPI, errorMsg)
}

// NewAPIClient creates a new APIClient.
func NewAPIClient(httpClient *http.Client, endpoint, accessKey string) (*APIClient, error) {
	// Use a default http client if none is provided.
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	endpointURL, err := url.Parse(endpoint)
	if err != nil || endpointURL.Host == "" {
		return nil, HTTPEndpointFormattingError(endpoint)
	}

	return &APIClient{
		HTTPClient: httpClient,
		Endpoint:   endpointURL,
		AccessKey:  accessKey,
	}, nil
}

// LatestRatesResponse is the body of a latest-rates response.
type LatestRatesResponse struct {
	Success bool                       `json:"success"`
	Base    string                     `json:"base,omitempty"`
	Date    string                     `json:"date,omitempty"`
	Rates   map[string]decimal.Decimal `json:"rates"`
	Error   *APIError                  `json:"error,omitempty"`
}

// APIError is the error object the API attaches to failed requests.
type APIError struct {
	Code int    `json:"code"`
	Type string `json:"type,omitempty"`
	Info string `json:"info,omitempty"`
}

// GetLatestRates sends a GET request for the rates of symbols against base.
func (c *APIClient) GetLatestRates(
	ctx context.Context,
	base string,
	symbols []string) (*http.Response, *LatestRatesResponse, error) {
	endpoint := *c.Endpoint

	// Add query parameters.
	q := endpoint.Query()
	if c.AccessKey != "" {
		q.Set("access_key", c.AccessKey)
	}
	q.Set("base", base)
	q.Set("symbols", strings.Join(symbols, ","))
	endpoint.RawQuery = q.Encode()

	// Create the request.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Add("Accept", "application/json")

	// Send the request.
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return resp, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp, nil, HTTPUnexpectedStatusCodeError(resp.StatusCode)
	}

	return latestRatesResponseUnmarshall(resp)
}

// LatestRates implements currency.RateProvider. Any failure is reported as
// an exchange rate error.
func (c *APIClient) LatestRates(ctx context.Context, base string, symbols []string) (currency.Rates, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "Fetching exchange rates", "endpoint", c.Endpoint.String(), "base", base, "symbols", symbols)

	_, result, err := c.GetLatestRates(ctx, base, symbols)
	if err != nil {
		return nil, apperrors.WrapExternalRate(err)
	}

	rates := make(currency.Rates, len(result.Rates))
	for code, rate := range result.Rates {
		rates[strings.ToUpper(code)] = rate
	}
	logger.DebugContext(ctx, "Fetched exchange rates", "count", len(rates), "date", result.Date)

	return rates, nil
}

// latestRatesResponseUnmarshall decodes the body and checks that it carries rates.
func latestRatesResponseUnmarshall(
	resp *http.Response) (*http.Response, *LatestRatesResponse, error) {
	var result LatestRatesResponse

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("error reading response body: %w", err)
	}

	err = json.Unmarshal(body, &result)
	if err != nil {
		return resp, nil, HTTPBodyUnmarshallError(err)
	}

	if result.Error != nil {
		return resp, nil, RatesAPIError(fmt.Sprintf("%d %s", result.Error.Code, result.Error.Info))
	}
	if result.Rates == nil {
		return resp, nil, errMissingRates
	}

	return resp, &result, nil
}
