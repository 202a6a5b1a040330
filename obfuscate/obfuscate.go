package obfuscate

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"strings"
)

// Codec maps numeric entity ids to URL-safe tokens and back, so raw database
// ids don't show up in browser URLs. The secret is a fixed client-side
// constant: this is obfuscation only, not confidentiality or integrity
// protection. Access control on these ids has to live server-side.
type Codec struct {
	Prefix string
	Secret string
}

func New(prefix, secret string) *Codec {
	return &Codec{Prefix: prefix, Secret: secret}
}

var digitRun = regexp.MustCompile(`[0-9]+`)

// Encode renders the id between the prefix and the secret, base64 encodes it
// and swaps the URL-unsafe characters (padding dropped, / and + remapped).
func (c *Codec) Encode(id int) string {
	plain := c.Prefix + strconv.Itoa(id) + c.Secret
	enc := base64.StdEncoding.EncodeToString([]byte(plain))
	enc = strings.TrimRight(enc, "=")
	enc = strings.ReplaceAll(enc, "/", "_")
	enc = strings.ReplaceAll(enc, "+", "-")
	return enc
}

// Decode inverts Encode. It never fails outward: on any structural mismatch
// it degrades to the first run of digits it can find, and with no digits at
// all it hands back the token unchanged. Callers route the result straight
// into request paths, so a permissive fallback beats an error here.
func (c *Codec) Decode(token string) string {
	enc := strings.ReplaceAll(token, "_", "/")
	enc = strings.ReplaceAll(enc, "-", "+")
	if pad := len(enc) % 4; pad != 0 {
		enc += strings.Repeat("=", 4-pad)
	}

	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		// not even decodable, scan the raw token
		if digits := digitRun.FindString(token); digits != "" {
			return digits
		}
		return token
	}

	decoded := string(raw)
	if strings.HasPrefix(decoded, c.Prefix) && strings.HasSuffix(decoded, c.Secret) {
		id := decoded[len(c.Prefix) : len(decoded)-len(c.Secret)]
		if id != "" && digitRun.FindString(id) == id {
			return id
		}
	}

	if digits := digitRun.FindString(decoded); digits != "" {
		return digits
	}
	return token
}
