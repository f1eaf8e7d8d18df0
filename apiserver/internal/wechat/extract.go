package wechat

import (
	"regexp"

	dida "github.com/2977094657/DidaAPI"
)

// qrKeyLen is the length of the opaque key identifying one QR login code:
// the trailing 16 characters of the QR image's src URL.
const qrKeyLen = 16

// qrImagePattern targets the image tag the upstream login page embeds the QR
// code in; its class attribute contains "qrcode".
var qrImagePattern = regexp.MustCompile(
	`<img[^>]*class="[^"]*qrcode[^"]*"[^>]*src="([^"]*)"`,
)

// qrKeyFallbackPatterns are tried in order against the raw page text when
// the image tag match fails. Upstream has reshuffled this page before; the
// layered match keeps the flow working across variants.
var qrKeyFallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/connect/qrcode/([a-zA-Z0-9]{16})`),
	regexp.MustCompile(`qrcode/([a-zA-Z0-9]{16})`),
	regexp.MustCompile(`src="[^"]*?([a-zA-Z0-9]{16})"`),
}

// extractQRKey pulls the 16-character QR key out of the upstream login
// page's HTML.
func extractQRKey(html string) (string, error) {
	if match := qrImagePattern.FindStringSubmatch(html); match != nil {
		src := match[1]
		if len(src) >= qrKeyLen {
			return src[len(src)-qrKeyLen:], nil
		}
	}
	for _, pattern := range qrKeyFallbackPatterns {
		if match := pattern.FindStringSubmatch(html); match != nil {
			return match[1], nil
		}
	}
	return "", dida.NewErrExtraction("QR key")
}
