package mws

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"sort"
	"strings"
)

// Signature version 2 parameters.
const (
	signatureVersion = "2"
	signatureMethod  = "HmacSHA256"
)

// percentEncode escapes s as RFC 3986 requires: only A-Z a-z 0-9 - _ . ~
// are left as is, and space becomes %20.
func percentEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// canonicalQuery joins params sorted by key in byte order. Only the first
// value of each key is used.
func canonicalQuery(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(percentEncode(k))
		b.WriteByte('=')
		b.WriteString(percentEncode(params.Get(k)))
	}
	return b.String()
}

// stringToSign builds the signature V2 string for a request to endpoint.
func stringToSign(method string, endpoint *url.URL, params url.Values) string {
	path := endpoint.EscapedPath()
	if path == "" {
		path = "/"
	}
	return method + "\n" +
		strings.ToLower(endpoint.Host) + "\n" +
		path + "\n" +
		canonicalQuery(params)
}

// sign returns the base64 HMAC-SHA256 of data keyed by secret.
func sign(data, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
