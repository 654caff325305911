package mws

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AKIAEXAMPLE", "AKIAEXAMPLE"},
		{"a b", "a%20b"},
		{"a*b", "a%2Ab"},
		{"a~b", "a~b"},
		{"a+b", "a%2Bb"},
		{"2026-01-02T03:04:05Z", "2026-01-02T03%3A04%3A05Z"},
		{"x/y=z&w", "x%2Fy%3Dz%26w"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, percentEncode(tt.input))
		})
	}
}

func TestSign_KnownAnswer(t *testing.T) {
	endpoint, err := url.Parse("https://MWS.amazonservices.com")
	require.NoError(t, err)

	params := url.Values{}
	params.Set("Action", "GetReport")
	params.Set("Merchant", "A1B2C3")
	params.Set("ReportId", "98765")
	params.Set("MWSAuthToken", "amzn.mws.a b*c~d")
	params.Set("AWSAccessKeyId", "AKIAEXAMPLE")
	params.Set("Timestamp", "2026-01-02T03:04:05Z")
	params.Set("Version", "2009-01-01")
	params.Set("SignatureVersion", "2")
	params.Set("SignatureMethod", "HmacSHA256")

	query := "AWSAccessKeyId=AKIAEXAMPLE&Action=GetReport&MWSAuthToken=amzn.mws.a%20b%2Ac~d" +
		"&Merchant=A1B2C3&ReportId=98765&SignatureMethod=HmacSHA256&SignatureVersion=2" +
		"&Timestamp=2026-01-02T03%3A04%3A05Z&Version=2009-01-01"
	assert.Equal(t, query, canonicalQuery(params))

	toSign := stringToSign("POST", endpoint, params)
	assert.Equal(t, "POST\nmws.amazonservices.com\n/\n"+query, toSign)
	assert.Equal(t, "g17Q1mAqfYWVEcM/336ZQeR+R5eSLTTY6MGXx5eOq0M=", sign(toSign, "secret"))
}
