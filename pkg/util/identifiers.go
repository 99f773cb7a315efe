package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTypeCode = "PRD"
	codeAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TypeCode is the three character upper case prefix derived from a product
// type, e.g. "olive oil" -> "OLI".
func TypeCode(productType string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(productType) {
		if b.Len() == 3 {
			break
		}
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return defaultTypeCode
	}
	return b.String()
}

// GenerateBatchCode returns BATCH-<TYPE>-<unix millis>-<4 random chars>.
func GenerateBatchCode(productType string, now time.Time) string {
	return fmt.Sprintf("BATCH-%s-%d-%s", TypeCode(productType), now.UnixMilli(), randomCode(4))
}

// GenerateProductIdentifier returns a product identifier unique within the
// batch: <TYPE>-<batch millis>-<batch rand>-<index+1, 6 digits>-<6 random chars>.
// The zero-padded sequence number alone keeps identifiers distinct.
func GenerateProductIdentifier(productType, batchCode string, index int) string {
	parts := strings.Split(batchCode, "-")
	batchShort := batchCode
	if len(parts) >= 3 {
		batchShort = parts[len(parts)-2] + "-" + parts[len(parts)-1]
	}
	return fmt.Sprintf("%s-%s-%06d-%s", TypeCode(productType), batchShort, index+1, randomCode(6))
}

// BuildVerifyURL returns the consumer verification link encoded into a
// product's QR code.
func BuildVerifyURL(baseURL, productID, batchCode string) string {
	q := url.Values{}
	q.Set("productId", productID)
	q.Set("batchCode", batchCode)
	return strings.TrimRight(baseURL, "/") + "/verify?" + q.Encode()
}

func randomCode(n int) string {
	max := big.NewInt(int64(len(codeAlphabet)))
	out := make([]byte, n)
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		out[i] = codeAlphabet[v.Int64()]
	}
	return string(out)
}
