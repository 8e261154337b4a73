package proxy

import (
	"encoding/base64"
	"mime"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

const headerContentType = "Content-Type"

// EncodeBinary base64-encodes the body of resp when its content type matches
// one of binaryTypes. Entries may use "type/*" and "*/*" wildcards. A body that
// is already encoded is left alone.
func EncodeBinary(resp events.APIGatewayProxyResponse, binaryTypes []string) events.APIGatewayProxyResponse {
	if resp.IsBase64Encoded || len(binaryTypes) == 0 {
		return resp
	}

	if !IsBinary(ContentType(resp), binaryTypes) {
		return resp
	}

	resp.Body = base64.StdEncoding.EncodeToString([]byte(resp.Body))
	resp.IsBase64Encoded = true

	return resp
}

// ContentType returns the response's Content-Type, looking at single-value
// headers first. Header names match case-insensitively.
func ContentType(resp events.APIGatewayProxyResponse) string {
	for k, v := range resp.Headers {
		if strings.EqualFold(k, headerContentType) {
			return v
		}
	}
	for k, v := range resp.MultiValueHeaders {
		if strings.EqualFold(k, headerContentType) && len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// IsBinary reports whether contentType matches one of binaryTypes.
func IsBinary(contentType string, binaryTypes []string) bool {
	mediaType := normalize(contentType)
	if mediaType == "" {
		return false
	}

	for _, t := range binaryTypes {
		pattern := normalize(t)
		if pattern == "" {
			continue
		}
		if pattern == "*/*" || pattern == mediaType {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok && strings.HasPrefix(mediaType, prefix+"/") {
			return true
		}
	}

	return false
}

func normalize(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
